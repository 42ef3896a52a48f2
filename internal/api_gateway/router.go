package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/handler"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transferHandler *handler.TransferHandler,
	recipientHandler *handler.RecipientHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.GET("/:id/limits", accountHandler.GetLimits)
			accounts.GET("/:id/transfers", transferHandler.GetByAccountID)
		}

		// Transfer operations
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.POST("/validate", transferHandler.Validate)
			transfers.GET("/:id", transferHandler.GetByID)
		}

		// Saved recipient operations
		recipients := v1.Group("/recipients")
		{
			recipients.POST("", recipientHandler.Create)
			recipients.GET("", recipientHandler.List)
			recipients.GET("/lookup", recipientHandler.Lookup)
			recipients.POST("/favorite", recipientHandler.SetFavorite)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
