package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/export"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReportHandler struct {
	service *service.InventoryService
}

func NewReportHandler(service *service.InventoryService) *ReportHandler {
	return &ReportHandler{service: service}
}

// InventoryWorkbook streams every product and purchase order as an XLSX download
func (h *ReportHandler) InventoryWorkbook(c *gin.Context) {
	products := h.service.Products(domain.ProductFilter{})
	orders := h.service.PurchaseOrders("")

	data, err := export.Bytes(products, orders)
	if err != nil {
		log.Error().Err(err).Msg("failed to render inventory report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(time.Now())))
	c.Data(http.StatusOK, export.ContentType, data)
}
