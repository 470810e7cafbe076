package ingredient

import (
	"net/http"
	"strconv"

	"meal-planner/internal/core/catalog"

	"github.com/gin-gonic/gin"
)

// SearchResponse is the catalog search body.
type SearchResponse struct {
	Query   string   `json:"query"`
	Count   int      `json:"count"`
	Results []string `json:"results"`
}

// HandleSearch performs a case-insensitive substring search over the
// ingredient catalog. An empty query lists the catalog head.
func HandleSearch(c *gin.Context) {
	query := c.Query("q")

	limit := 0
	defaulted := true
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
		defaulted = false
	}

	results := catalog.Search(query, catalog.ClampLimit(limit, defaulted))
	c.JSON(http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}
