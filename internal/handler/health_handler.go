package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/migration"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

type MigrationReporter interface {
	Status(ctx context.Context) (*migration.Status, error)
}

type HealthHandler struct {
	db         DatabaseProbe
	migrations MigrationReporter
}

// NewHealthHandler builds the health endpoint. migrations may be nil.
func NewHealthHandler(db DatabaseProbe, migrations MigrationReporter) *HealthHandler {
	return &HealthHandler{db: db, migrations: migrations}
}

// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Log.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Database unreachable"})
		return
	}

	stats := h.db.Stats()
	body := gin.H{
		"status": "ok",
		"database": gin.H{
			"openConnections": stats.OpenConnections,
			"inUse":           stats.InUse,
			"idle":            stats.Idle,
			"waitCount":       stats.WaitCount,
		},
	}

	if h.migrations != nil {
		if status, err := h.migrations.Status(ctx); err == nil {
			body["migrations"] = gin.H{
				"executed": len(status.Executed),
				"pending":  status.Pending,
			}
		}
	}

	c.JSON(http.StatusOK, body)
}
