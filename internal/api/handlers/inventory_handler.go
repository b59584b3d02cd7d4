package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type setTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

type saleRequest struct {
	Quantity int `json:"quantity"`
}

type adjustmentRequest struct {
	Adjustment int    `json:"adjustment"`
	Reason     string `json:"reason"`
}

// GetState returns the current tier and refresh status
func (h *InventoryHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.State())
}

// SetTier switches the subscription tier and reloads products
func (h *InventoryHandler) SetTier(c *gin.Context) {
	var req setTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	tier, ok := domain.ParseTier(req.Tier)
	if !ok {
		badRequest(c, "tier must be Starter or Pro", nil)
		return
	}

	if err := h.service.SetTier(c.Request.Context(), tier); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.RefreshFailedMessage, "details": err.Error(), "state": h.service.State()})
		return
	}
	c.JSON(http.StatusOK, h.service.State())
}

// Refresh recomposes every product from the catalog
func (h *InventoryHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.RefreshFailedMessage, "details": err.Error(), "state": h.service.State()})
		return
	}
	c.JSON(http.StatusOK, h.service.State())
}

// ListProducts returns products filtered by status and sorted on request
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		SortField: strings.TrimSpace(c.Query("sort_field")),
		SortDir:   strings.TrimSpace(c.DefaultQuery("sort_direction", "asc")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, ok := domain.ParseInventoryStatus(raw)
		if !ok {
			badRequest(c, "status must be Healthy, Low or Critical", nil)
			return
		}
		filter.Status = status
	}

	products := h.service.Products(filter)
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

// VisibleProducts returns the tier-limited dashboard list
func (h *InventoryHandler) VisibleProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.VisibleProducts())
}

func (h *InventoryHandler) AtRisk(c *gin.Context) {
	products := h.service.AtRisk()
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.service.Product(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetSales returns daily sales between the start and end query dates
func (h *InventoryHandler) GetSales(c *gin.Context) {
	points, err := h.service.SalesSeries(c.Param("id"), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

func (h *InventoryHandler) ReorderSuggestion(c *gin.Context) {
	suggestion, err := h.service.ReorderSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// RecordSale simulates a sale of the requested quantity
func (h *InventoryHandler) RecordSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.service.SimulateSale(c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// AdjustStock applies a manual correction made by the user in the X-User-Name header
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.service.AdjustStock(c.Param("id"), req.Adjustment, req.Reason, c.GetHeader(UserHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
