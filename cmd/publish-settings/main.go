package main

import (
	"context"
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

// inlineScheduler runs tasks immediately; the CLI publishes synchronously
type inlineScheduler struct{}

func (inlineScheduler) Schedule(name string, delay time.Duration, task service.Task) {
	_ = task(context.Background())
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/publish-settings/main.go <shop-domain>")
		os.Exit(1)
	}
	shop := shopify.NormalizeShopDomain(os.Args[1])

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
	publisher := service.NewSettingsPublisher(clients, repos, inlineScheduler{}, cfg.Shopify.AppURL, 0, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Deferred.TaskTimeout)
	defer cancel()

	result, err := publisher.Publish(ctx, shop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Publish failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Owner: %s\n", result.ShopID)
	fmt.Printf("Metafield: %s.%s (%s)\n", service.SettingsMetafieldNamespace, service.SettingsMetafieldKey, service.SettingsMetafieldType)
	fmt.Printf("Value: %s\n", result.Value)

	if len(result.UserErrors) > 0 {
		fmt.Println("\nuserErrors:")
		for _, ue := range result.UserErrors {
			fmt.Printf("  - %v: %s (%s)\n", ue.Field, ue.Message, ue.Code)
		}
		os.Exit(1)
	}
	fmt.Println("\nSettings published.")
}
