package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root describes the API surface.
func Root() gin.HandlerFunc {
	endpoints := gin.H{
		"analyses":         "GET /analyses - List analysis runs",
		"latest_analysis":  "GET /analyses/latest - Most recent analysis with details",
		"analysis_detail":  "GET /analyses/{id} - Analysis by ID",
		"total_sites":      "GET /metrics/total-sites - Total galamsay sites",
		"region_highest":   "GET /metrics/region-highest - Region with the most sites",
		"avg_per_region":   "GET /metrics/average-per-region - Average sites per region",
		"cities_exceeding": "GET /metrics/cities-exceeding-threshold - Cities over the threshold",
		"city":             "GET /city/{name} - Data for one city",
		"region":           "GET /region/{name} - Cities in one region",
		"health":           "GET /health - Service health",
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Galamsay Analysis API",
			"endpoints": endpoints,
		})
	}
}
