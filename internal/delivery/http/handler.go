package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	exports *usecase.ExportService
}

// NewHandler creates a new HTTP handler
func NewHandler(exports *usecase.ExportService) *Handler {
	return &Handler{exports: exports}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storeport-backend",
		"version": "1.0.0",
	})
}

// ExportRequest is the export endpoint payload.
type ExportRequest struct {
	URL string `json:"url" binding:"required"`
	// Force skips the store and refetches the live page.
	Force bool `json:"force"`
}

// ExportProduct runs the pipeline for one product URL and returns the
// extracted record plus its classification.
func (h *Handler) ExportProduct(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export service not configured"})
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: url is required"})
		return
	}

	result, err := h.exports.Export(c.Request.Context(), req.URL, req.Force)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":         result.Record,
		"classification": classificationJSON(result.Classification),
		"rowCount":       len(result.Rows),
		"fromCache":      result.FromCache,
	})
}

// ExportCSV runs the pipeline and streams the import CSV as a download.
func (h *Handler) ExportCSV(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export service not configured"})
		return
	}

	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}
	force := c.Query("force") == "true"

	result, err := h.exports.Export(c.Request.Context(), pageURL, force)
	if err != nil {
		h.renderError(c, err)
		return
	}

	filename := usecase.Slugify(result.Record.Title)
	if filename == "" {
		filename = "product"
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
	c.Status(http.StatusOK)

	if err := usecase.WriteCSV(c.Writer, result.Rows); err != nil {
		// The status line is already on the wire; all that is left is to log.
		log.Printf("[HTTP] failed to stream csv for %s: %v", pageURL, err)
	}
}

// GetHistory returns the recently exported URLs, most recent first.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export service not configured"})
		return
	}

	urls, err := h.exports.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	if urls == nil {
		urls = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// ResetStore clears the record store and the history.
func (h *Handler) ResetStore(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export service not configured"})
		return
	}

	if err := h.exports.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset store"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// renderError maps pipeline errors onto HTTP statuses: rejected input 400,
// missing page 404, unusable page content 422, upstream trouble 502.
func (h *Handler) renderError(c *gin.Context, err error) {
	var missing *domain.MissingFieldError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product page not found"})
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": missing.Field})
	case errors.Is(err, domain.ErrInvalidSchema):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "page could not be parsed"})
	case errors.Is(err, domain.ErrPageFetch):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch product page"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func classificationJSON(cls usecase.Classification) gin.H {
	return gin.H{
		"categoryPath": cls.Config.CategoryPath,
		"productType":  cls.Config.ProductType,
		"keyword":      cls.Keyword,
		"fallback":     cls.Fallback,
	}
}
