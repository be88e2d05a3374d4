package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/repository/postgres"
	"github.com/articmaze/sizeapp/internal/service"
	"github.com/articmaze/sizeapp/internal/shopify"
)

// noopScheduler drops tasks; this tool never creates variants
type noopScheduler struct{}

func (noopScheduler) Schedule(string, time.Duration, service.Task) {}

func main() {
	deleteStale := flag.Bool("delete", false, "delete the stale variants instead of only listing them")
	flag.Parse()
	if flag.NArg() < 2 {
		fmt.Println("Usage: go run cmd/list-variants/main.go [-delete] <shop-domain> <product-id>")
		os.Exit(1)
	}
	shop := shopify.NormalizeShopDomain(flag.Arg(0))
	productID := flag.Arg(1)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	repos := postgres.NewRepositories(db, logger)

	clients := service.NewClientProvider(repos.Session, cfg.Shopify.APIVersion, logger)
	variants := service.NewVariantSyncService(clients, noopScheduler{}, 0, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Deferred.TaskTimeout)
	defer cancel()

	if *deleteStale {
		n, err := variants.CleanupStaleVariants(ctx, shop, productID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d stale variant(s).\n", n)
		return
	}

	found, toDelete, err := variants.PreviewStaleVariants(ctx, shop, productID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list variants: %v\n", err)
		os.Exit(1)
	}

	deleting := map[string]bool{}
	for _, id := range toDelete {
		deleting[id] = true
	}

	fmt.Printf("Variants updated on or before today (UTC): %d\n\n", len(found))
	for _, v := range found {
		action := "keep"
		if deleting[v.ID] {
			action = "delete"
		}
		fmt.Printf("  [%-6s] %s  %s  (created %s, product %q)\n", action, v.ID, v.Title, v.CreatedAt.Format(time.RFC3339), v.ParentProductTitle)
	}
	fmt.Printf("\nA cleanup would delete %d variant(s).\n", len(toDelete))
}
