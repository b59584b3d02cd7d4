package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PurchaseOrderHandler struct {
	service *service.InventoryService
}

func NewPurchaseOrderHandler(service *service.InventoryService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// List returns purchase orders, optionally filtered by ?status
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var status domain.POStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed, ok := domain.ParsePOStatus(raw)
		if !ok {
			badRequest(c, "status must be Draft, Sent or Received", nil)
			return
		}
		status = parsed
	}

	orders := h.service.PurchaseOrders(status)
	c.JSON(http.StatusOK, gin.H{"data": orders, "total": len(orders)})
}

func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	order, err := h.service.SendPurchaseOrder(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	order, err := h.service.ReceivePurchaseOrder(c.Param("id"))
	if err != nil {
		log.Warn().Err(err).Str("po_id", c.Param("id")).Msg("receive purchase order rejected")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
