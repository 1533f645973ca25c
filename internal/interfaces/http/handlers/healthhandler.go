package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Pinger is satisfied by *sql.DB and by thin wrappers around other stores.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	database Pinger
	logger   logger.Interface
}

func NewHealthHandler(database Pinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		database: database,
		logger:   logger,
	}
}

// HealthCheck handles GET /health. It reports 503 when the database is down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.database.PingContext(ctx); err != nil {
		h.logger.Errorw("health check failed", "component", "database", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  "tsapi",
			"database": "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "tsapi",
		"database": "ok",
	})
}
