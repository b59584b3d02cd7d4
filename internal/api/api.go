// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/internal/api/handlers"
	"github.com/andresuchdata/stockpilot/internal/api/middleware"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.UserHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services != nil && services.InventoryService != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
		settingsHandler := handlers.NewSettingsHandler(services.InventoryService)
		poHandler := handlers.NewPurchaseOrderHandler(services.InventoryService)
		reportHandler := handlers.NewReportHandler(services.InventoryService)

		apiGroup.GET("/tier", inventoryHandler.GetState)
		apiGroup.PUT("/tier", inventoryHandler.SetTier)

		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", inventoryHandler.ListProducts)
			productGroup.POST("/refresh", inventoryHandler.Refresh)
			productGroup.GET("/visible", inventoryHandler.VisibleProducts)
			productGroup.GET("/at_risk", inventoryHandler.AtRisk)
			productGroup.GET("/:id", inventoryHandler.GetProduct)
			productGroup.GET("/:id/sales", inventoryHandler.GetSales)
			productGroup.POST("/:id/sales", inventoryHandler.RecordSale)
			productGroup.POST("/:id/adjustments", inventoryHandler.AdjustStock)
			productGroup.GET("/:id/reorder_suggestion", inventoryHandler.ReorderSuggestion)

			// Alert and supplier settings
			productGroup.PUT("/:id/alert_setting", settingsHandler.UpdateAlertSetting)
			productGroup.POST("/:id/alert_recipients", settingsHandler.AddRecipient)
			productGroup.DELETE("/:id/alert_recipients", settingsHandler.RemoveRecipient)
			productGroup.POST("/:id/test_alert", settingsHandler.SendTestAlert)
			productGroup.PUT("/:id/supplier_mapping", settingsHandler.PutSupplierMapping)
			productGroup.DELETE("/:id/supplier_mapping", settingsHandler.DeleteSupplierMapping)
		}

		poGroup := apiGroup.Group("/purchase_orders")
		{
			poGroup.GET("", poHandler.List)
			poGroup.POST("/:id/send", poHandler.Send)
			poGroup.POST("/:id/receive", poHandler.Receive)
		}

		apiGroup.GET("/reports/inventory.xlsx", reportHandler.InventoryWorkbook)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
