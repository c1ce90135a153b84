package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kofimuad/galamsay-analysis/database"
)

// Health reports storage connectivity. A reachable database yields the
// recorded run count; anything else is a 503.
func Health(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
			})
			return
		}

		count, err := store.CountRuns(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"database":      "connected",
			"analysis_runs": count,
		})
	}
}
