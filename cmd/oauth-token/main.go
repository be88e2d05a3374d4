package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/repository/postgres"
	"github.com/articmaze/sizeapp/internal/service"
	"github.com/articmaze/sizeapp/internal/shopify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/oauth-token/main.go <shop-domain> [code]")
		fmt.Println("\nNote: This requires manual authorization. Follow the steps:")
		fmt.Println("1. Run this script with only the shop - it will give you an authorization URL")
		fmt.Println("2. Visit the URL in your browser and authorize")
		fmt.Println("3. Copy the 'code' from the redirect URL")
		fmt.Println("4. Run the script again with the code; the session is stored like a normal install")
		os.Exit(1)
	}
	shop := shopify.NormalizeShopDomain(os.Args[1])

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !shopify.IsValidShopDomain(shop, cfg.Shopify.ShopCustomDomain) {
		fmt.Fprintf(os.Stderr, "Invalid shop domain: %s\n", shop)
		os.Exit(1)
	}

	oauth := shopify.NewOAuth(cfg.Shopify.APIKey, cfg.Shopify.APISecret, cfg.Shopify.Scopes, cfg.Shopify.AppURL+"/auth/callback")

	if len(os.Args) < 3 {
		fmt.Println("Visit this URL to authorize the app:")
		fmt.Println(oauth.AuthorizeURL(shop, uuid.NewString()))
		return
	}
	code := os.Args[2]

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
	installer := service.NewInstallService(oauth, clients, repos, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := installer.CompleteInstall(ctx, shop, code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get access token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Session stored.")
	fmt.Printf("Shop: %s\n", session.Shop)
	fmt.Printf("Scope: %s\n", session.Scope)
	if session.ShopID != nil {
		fmt.Printf("Shop ID: %s\n", *session.ShopID)
	}
}
