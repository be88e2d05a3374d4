package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	repos := postgres.NewRepositories(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	products, err := repos.Product.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list products: %v\n", err)
		os.Exit(1)
	}

	if len(products) == 0 {
		fmt.Println("No products configured.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT ID\tTITLE\tPRICE\tLENGTH\tWIDTH\tACTIVE")
	active := 0
	for _, p := range products {
		if p.Status {
			active++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %d-%d\t%s %d-%d\t%t\n",
			p.ProductID, p.Title, p.Price.StringFixed(2),
			p.LengthOption, p.LengthMin, p.LengthMax,
			p.WidthOption, p.WidthMin, p.WidthMax,
			p.Status,
		)
	}
	w.Flush()
	fmt.Printf("\n%d product(s), %d active (published)\n", len(products), active)
}
