package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves alert settings, recipients and supplier mappings.
type SettingsHandler struct {
	service *service.InventoryService
}

func NewSettingsHandler(service *service.InventoryService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type recipientRequest struct {
	Channel string `json:"channel" form:"channel" binding:"required"`
	Value   string `json:"value" form:"value" binding:"required"`
}

func (h *SettingsHandler) UpdateAlertSetting(c *gin.Context) {
	var req domain.AlertSettingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.service.UpdateAlertSetting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *SettingsHandler) AddRecipient(c *gin.Context) {
	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "channel and value are required", err)
		return
	}

	product, err := h.service.AddAlertRecipient(c.Request.Context(), c.Param("id"), domain.AlertChannel(req.Channel), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.AlertSetting)
}

// RemoveRecipient reads channel and value from the query string
func (h *SettingsHandler) RemoveRecipient(c *gin.Context) {
	var req recipientRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "channel and value are required", err)
		return
	}

	product, err := h.service.RemoveAlertRecipient(c.Request.Context(), c.Param("id"), domain.AlertChannel(req.Channel), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.AlertSetting)
}

func (h *SettingsHandler) SendTestAlert(c *gin.Context) {
	message, err := h.service.SendTestAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *SettingsHandler) PutSupplierMapping(c *gin.Context) {
	var req domain.ExternalInventoryMapping
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.service.AddSupplierMapping(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *SettingsHandler) DeleteSupplierMapping(c *gin.Context) {
	product, err := h.service.RemoveSupplierMapping(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
