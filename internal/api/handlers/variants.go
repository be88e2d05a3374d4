package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/service"
	"github.com/articmaze/sizeapp/internal/shopify"
	"github.com/articmaze/sizeapp/pkg/errors"
)

// VariantCreator creates storefront size variants
type VariantCreator interface {
	CreateVariant(ctx context.Context, req *domain.VariantCreateRequest) (*service.VariantCreateResult, error)
}

// variantResponse mirrors the storefront contract: {status, data, errors}
type variantResponse struct {
	Status int                     `json:"status"`
	Data   []domain.CreatedVariant `json:"data"`
	Errors []domain.UserError      `json:"errors"`
}

// HandleCreateVariant handles POST /api/articmaze
func HandleCreateVariant(variants VariantCreator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.VariantCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, variantResponse{
				Status: http.StatusBadRequest,
				Errors: []domain.UserError{{Message: "invalid request body"}},
			})
			return
		}

		req.Shop = shopify.NormalizeShopDomain(req.Shop)
		if req.Shop == "" {
			respondShopError(c)
			return
		}

		result, err := variants.CreateVariant(c.Request.Context(), &req)
		if err != nil {
			switch e := err.(type) {
			case *errors.ErrValidation:
				c.JSON(http.StatusUnprocessableEntity, variantResponse{
					Status: http.StatusUnprocessableEntity,
					Errors: validationUserErrors(e),
				})
			case *errors.ErrNotFound:
				logger.Warn("Variant request for unknown shop", zap.String("shop", req.Shop))
				respondShopError(c)
			default:
				c.JSON(http.StatusBadGateway, variantResponse{
					Status: http.StatusBadGateway,
					Errors: []domain.UserError{{Message: "Server error"}},
				})
			}
			return
		}

		var data []domain.CreatedVariant
		if len(result.Variants) > 0 {
			data = result.Variants
		}
		c.JSON(http.StatusOK, variantResponse{
			Status: http.StatusOK,
			Data:   data,
			Errors: result.UserErrors,
		})
	}
}

func respondShopError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, variantResponse{
		Status: http.StatusInternalServerError,
		Errors: []domain.UserError{{Field: []string{"shop"}, Message: "Server error"}},
	})
}

func validationUserErrors(e *errors.ErrValidation) []domain.UserError {
	if len(e.Fields) == 0 {
		return []domain.UserError{{Message: e.Error()}}
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.UserError, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.UserError{Field: []string{k}, Message: e.Fields[k]})
	}
	return out
}
