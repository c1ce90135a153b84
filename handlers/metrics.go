package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/models"
)

// resolveRun picks the run a request targets: the one named by the optional
// analysis_id query parameter, or the latest. On failure it writes the error
// response and returns false.
func resolveRun(c *gin.Context, store *database.Store) (*models.AnalysisRun, bool) {
	if raw := c.Query("analysis_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis_id"})
			return nil, false
		}

		run, err := store.RunByID(c.Request.Context(), uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Analysis ID %d not found", id)})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			}
			return nil, false
		}
		return run, true
	}

	run, err := store.LatestRun(c.Request.Context())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No analysis runs found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	return run, true
}

// TotalSites reports the total site count from the targeted run.
func TotalSites(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total_galamsay_sites": run.TotalSites,
			"analysis_id":          run.ID,
			"timestamp":            run.CreatedAt,
		})
	}
}

// RegionHighest reports the region with the most sites in the targeted run.
func RegionHighest(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"region":         run.TopRegion,
			"galamsay_sites": run.TopRegionSites,
			"analysis_id":    run.ID,
			"timestamp":      run.CreatedAt,
		})
	}
}

// AveragePerRegion reports the average site count per region for the
// targeted run.
func AveragePerRegion(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"average_sites_per_region": run.AveragePerRegion,
			"analysis_id":              run.ID,
			"timestamp":                run.CreatedAt,
		})
	}
}

// CitiesExceeding lists the over-threshold cities recorded for the targeted
// run. An optional threshold query parameter narrows the stored rows to
// those with a higher site count.
func CitiesExceeding(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}

		rows, err := store.CitiesExceeding(c.Request.Context(), run.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if raw := c.Query("threshold"); raw != "" {
			threshold, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
				return
			}
			if threshold > 0 {
				filtered := make([]models.CityExceedsThreshold, 0, len(rows))
				for _, row := range rows {
					if row.Sites > threshold {
						filtered = append(filtered, row)
					}
				}
				rows = filtered
			}
		}

		c.JSON(http.StatusOK, rows)
	}
}
