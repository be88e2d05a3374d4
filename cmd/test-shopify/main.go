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

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/test-shopify/main.go <shop-domain>")
		os.Exit(1)
	}
	shop := shopify.NormalizeShopDomain(os.Args[1])

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := repos.Session.GetByShop(ctx, shop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No stored session for %s: %v\n", shop, err)
		fmt.Println("Install the app on the shop first (GET /auth?shop=...).")
		os.Exit(1)
	}

	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", session.Shop)
	fmt.Printf("Scope: %s\n", session.Scope)
	fmt.Printf("API Version: %s\n\n", cfg.Shopify.APIVersion)

	client := service.NewClientProvider(repos.Session, cfg.Shopify.APIVersion, logger).ForSession(session)

	resp, err := client.Execute(ctx, shopify.ShopQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. The stored access token is still valid (reinstall the app if it was uninstalled)")
		fmt.Println("  2. SHOPIFY_API_VERSION is a supported version")
		os.Exit(1)
	}

	fmt.Println("Connection successful!")
	fmt.Printf("Response: %s\n", string(resp.Data))
}
