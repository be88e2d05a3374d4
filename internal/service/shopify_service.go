package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/shopify"
)

const productGIDPrefix = "gid://shopify/Product/"

// staleVariantsPageSize bounds a single cleanup pass
const staleVariantsPageSize = 100

// ShopIdentity is the result of the shop query
type ShopIdentity struct {
	ID     string
	Name   string
	Domain string
}

// shopifyService wraps one shop's Admin API client with typed operations
type shopifyService struct {
	client shopify.Executor
	logger *zap.Logger
}

func newShopifyService(client shopify.Executor, logger *zap.Logger) *shopifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shopifyService{
		client: client,
		logger: logger,
	}
}

// ShopIdentity fetches the shop GID and name
func (s *shopifyService) ShopIdentity(ctx context.Context) (*ShopIdentity, error) {
	resp, err := s.client.Execute(ctx, shopify.ShopQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("shop query: %w", err)
	}
	var result struct {
		Shop struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			MyshopifyDomain string `json:"myshopifyDomain"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse shop response: %w", err)
	}
	if result.Shop.ID == "" {
		return nil, fmt.Errorf("shop response has no id")
	}
	return &ShopIdentity{
		ID:     result.Shop.ID,
		Name:   result.Shop.Name,
		Domain: result.Shop.MyshopifyDomain,
	}, nil
}

// BulkCreateVariants creates variants on a product. User errors are returned, not wrapped in err.
func (s *shopifyService) BulkCreateVariants(ctx context.Context, productID string, variants []shopify.ProductVariantsBulkInput) ([]domain.CreatedVariant, []domain.UserError, error) {
	variables := map[string]interface{}{
		"productId": productID,
		"variants":  variants,
	}
	resp, err := s.client.Execute(ctx, shopify.ProductVariantsBulkCreateMutation, variables)
	if err != nil {
		return nil, nil, fmt.Errorf("productVariantsBulkCreate: %w", err)
	}
	var result struct {
		ProductVariantsBulkCreate struct {
			ProductVariants []domain.CreatedVariant `json:"productVariants"`
			UserErrors      []domain.UserError      `json:"userErrors"`
		} `json:"productVariantsBulkCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, nil, fmt.Errorf("parse productVariantsBulkCreate response: %w", err)
	}
	return result.ProductVariantsBulkCreate.ProductVariants, result.ProductVariantsBulkCreate.UserErrors, nil
}

// VariantsUpdatedBefore lists variants of a product last updated on or before the given day (UTC).
// The search string travels as a GraphQL variable.
func (s *shopifyService) VariantsUpdatedBefore(ctx context.Context, productID string, day time.Time) ([]domain.RemoteVariant, error) {
	numericID, err := productNumericID(productID)
	if err != nil {
		return nil, err
	}
	variables := map[string]interface{}{
		"first": staleVariantsPageSize,
		"query": staleVariantsSearch(numericID, day),
	}
	resp, err := s.client.Execute(ctx, shopify.ProductVariantsQuery, variables)
	if err != nil {
		return nil, fmt.Errorf("productVariants query: %w", err)
	}
	var result struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					ID        string    `json:"id"`
					Title     string    `json:"title"`
					CreatedAt time.Time `json:"createdAt"`
					Product   struct {
						Title string `json:"title"`
					} `json:"product"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse productVariants response: %w", err)
	}

	variants := make([]domain.RemoteVariant, 0, len(result.ProductVariants.Edges))
	for _, edge := range result.ProductVariants.Edges {
		variants = append(variants, domain.RemoteVariant{
			ID:                 edge.Node.ID,
			Title:              edge.Node.Title,
			CreatedAt:          edge.Node.CreatedAt,
			ParentProductTitle: edge.Node.Product.Title,
		})
	}
	return variants, nil
}

// BulkDeleteVariants deletes variants of one product
func (s *shopifyService) BulkDeleteVariants(ctx context.Context, productID string, variantIDs []string) ([]domain.UserError, error) {
	variables := map[string]interface{}{
		"productId":   productID,
		"variantsIds": variantIDs,
	}
	resp, err := s.client.Execute(ctx, shopify.ProductVariantsBulkDeleteMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("productVariantsBulkDelete: %w", err)
	}
	var result struct {
		ProductVariantsBulkDelete struct {
			UserErrors []domain.UserError `json:"userErrors"`
		} `json:"productVariantsBulkDelete"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse productVariantsBulkDelete response: %w", err)
	}
	return result.ProductVariantsBulkDelete.UserErrors, nil
}

// SetMetafields writes metafields, replacing existing values for the same owner/namespace/key
func (s *shopifyService) SetMetafields(ctx context.Context, metafields []shopify.MetafieldsSetInput) ([]domain.UserError, error) {
	variables := map[string]interface{}{
		"metafields": metafields,
	}
	resp, err := s.client.Execute(ctx, shopify.MetafieldsSetMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("metafieldsSet: %w", err)
	}
	var result struct {
		MetafieldsSet struct {
			UserErrors []domain.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse metafieldsSet response: %w", err)
	}
	return result.MetafieldsSet.UserErrors, nil
}

// staleVariantsSearch builds e.g. "product_id:123 AND updated_at:<='2024-10-01'"
func staleVariantsSearch(numericID int64, day time.Time) string {
	return fmt.Sprintf("product_id:%d AND updated_at:<='%s'", numericID, day.UTC().Format("2006-01-02"))
}

// productGID accepts a product GID or a bare numeric id and returns the GID.
// Only "gid://shopify/Product/<digits>" and "<digits>" are valid.
func productGID(id string) (string, error) {
	id = strings.TrimSpace(id)
	numeric := strings.TrimPrefix(id, productGIDPrefix)
	if !isDigits(numeric) {
		return "", fmt.Errorf("invalid product id: %q", id)
	}
	if _, err := strconv.ParseInt(numeric, 10, 64); err != nil {
		return "", fmt.Errorf("invalid product id: %q", id)
	}
	return productGIDPrefix + numeric, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func productNumericID(id string) (int64, error) {
	gid, err := productGID(id)
	if err != nil {
		return 0, err
	}
	return extractIDFromGID(gid)
}

func extractIDFromGID(gid string) (int64, error) {
	// GID format: "gid://shopify/Product/123456"
	parts := strings.Split(gid, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID: %w", err)
	}

	return id, nil
}

func formatUserErrors(userErrors []domain.UserError) string {
	msgs := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}
		msgs = append(msgs, ue.Message)
	}
	return strings.Join(msgs, "; ")
}
