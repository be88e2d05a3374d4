package main

import (
	"context"
	"encoding/json"
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
		fmt.Println("Usage: go run cmd/check-permissions/main.go <shop-domain>")
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

	client, err := service.NewClientProvider(repos.Session, cfg.Shopify.APIVersion, logger).ForShop(ctx, shop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No stored session for %s: %v\n", shop, err)
		os.Exit(1)
	}

	fmt.Println("Checking API permissions...")

	resp, err := client.Execute(ctx, shopify.AccessScopesQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query access scopes: %v\n", err)
		os.Exit(1)
	}

	var result struct {
		CurrentAppInstallation struct {
			AccessScopes []struct {
				Handle string `json:"handle"`
			} `json:"accessScopes"`
		} `json:"currentAppInstallation"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	granted := map[string]bool{}
	for _, s := range result.CurrentAppInstallation.AccessScopes {
		granted[s.Handle] = true
	}

	missing := 0
	for _, scope := range cfg.Shopify.Scopes {
		if granted[scope] {
			fmt.Printf("  OK       %s\n", scope)
			continue
		}
		missing++
		fmt.Printf("  MISSING  %s\n", scope)
	}

	if missing > 0 {
		fmt.Printf("\n%d scope(s) missing. Reinstall the app so the merchant grants SCOPES.\n", missing)
		os.Exit(1)
	}
	fmt.Println("\nAll configured scopes are granted.")
}
