package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/mystore/internal/cart"
	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
)

type storeListItem struct {
	catalogdomain.ListItem
	PriceLabel string `json:"priceLabel"`
}

func (s *Server) StoreListProducts(c *gin.Context) {
	categoryID, err := s.parseCategory(c.Query("category"))
	if err != nil {
		AbortWithError(c, newValidationError("category", "invalid_category", "invalid category"))
		return
	}

	items, err := s.reader.List(c.Request.Context(), categoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]storeListItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, storeListItem{ListItem: item, PriceLabel: item.PriceRange.Label()})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "cartCount": cartCount(c)})
}

// StoreGetProduct serves the detail view with the affordances the page
// renders: price range, sold out state and the size selector.
func (s *Server) StoreGetProduct(c *gin.Context) {
	detail, err := s.reader.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view := catalogdomain.NewDetailView(*detail, strings.TrimSpace(c.Query("size")))
	c.JSON(http.StatusOK, gin.H{"data": view, "cartCount": cartCount(c)})
}

// PrefetchProduct warms the detail query when a product card is hovered.
func (s *Server) PrefetchProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, catalogdomain.ErrInvalidID)
		return
	}
	s.prefetcher.Prefetch(c.Request.Context(), id)
	c.Status(http.StatusAccepted)
}

func (s *Server) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": cartCount(c)}})
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
}

func (s *Server) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	detail, err := s.reader.GetByID(c.Request.Context(), strings.TrimSpace(req.ProductID))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	variant, err := catalogdomain.ResolveSelection(*detail, strings.TrimSpace(req.Size))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	counter, ok := cart.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}
	count := counter.IncrementCount()
	cart.Persist(c, counter)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"productName": detail.Name,
		"size":        variant.Size,
		"sku":         variant.SKU,
		"price":       variant.Price,
		"priceLabel":  catalogdomain.FormatEuroCents(variant.Price),
		"count":       count,
	}})
}

func cartCount(c *gin.Context) int {
	if counter, ok := cart.FromContext(c.Request.Context()); ok {
		return counter.Count()
	}
	return 0
}
