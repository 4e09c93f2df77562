package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"rxtract/internal/ocr"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db  *sqlx.DB
	ocr *ocr.Tesseract
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// in-memory job store is in use.
func NewHealthHandler(db *sqlx.DB, engine *ocr.Tesseract) *HealthHandler {
	return &HealthHandler{db: db, ocr: engine}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
			return
		}
	}
	if h.ocr != nil && !h.ocr.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "ocr engine not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
