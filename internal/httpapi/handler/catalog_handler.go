package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/catalog"
)

// minQueryLength is enforced here, at the caller: the catalog client only
// rejects empty queries.
const minQueryLength = 3

const defaultSearchLimit = 15

type CatalogSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]catalog.Summary, error)
}

type CatalogHandler struct {
	client CatalogSearcher
}

func NewCatalogHandler(client CatalogSearcher) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// Search runs a single-page catalog search
func (h *CatalogHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < minQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 3 characters"})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summaries, err := h.client.Search(ctx, query, limit)
	if err != nil {
		if errors.Is(err, catalog.ErrDecode) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog returned an unexpected response"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": summaries})
}
