package http

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trolleywatch/backend/internal/domain"
	"github.com/trolleywatch/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.CompareService
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.CompareService) *Handler {
	return &Handler{service: service}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// SearchStore handles GET /search?store=<name>&q=<text>, returning the
// normalized records from a single provider.
func (h *Handler) SearchStore(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: q"})
		return
	}

	store, err := domain.ParseStore(c.Query("store"))
	if err != nil {
		// Caller-correctable, so a 400 rather than a server fault.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.service.SearchStore(c.Request.Context(), store, query)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// Cheapest handles GET /cheapest?q=<text>, comparing both providers.
func (h *Handler) Cheapest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: q"})
		return
	}

	comparison, err := h.service.Cheapest(c.Request.Context(), query)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// BulkCheapestPerKg handles GET /bulk-cheapest-perkg?items=<a,b,c>.
// Blank entries are dropped before processing; item order is preserved
// in the report.
func (h *Handler) BulkCheapestPerKg(c *gin.Context) {
	items := splitItems(c.Query("items"))
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: items"})
		return
	}

	report := h.service.CheapestPerKgBatch(c.Request.Context(), items)
	c.JSON(http.StatusOK, gin.H{"items": report})
}

// splitItems parses a comma-separated item list, trimming whitespace and
// dropping blanks.
func splitItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// renderError maps domain errors onto HTTP statuses. Upstream details are
// logged server-side; callers only see the generic sentinel message.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownStore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingCredential):
		log.Printf("[HTTP] configuration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrMissingCredential.Error()})
	case errors.Is(err, domain.ErrUpstream):
		log.Printf("[HTTP] upstream failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrUpstream.Error()})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
