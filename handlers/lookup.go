package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kofimuad/galamsay-analysis/database"
)

// CityByName returns the cleaned row for one city in the targeted run. The
// name match ignores case.
func CityByName(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}

		name := c.Param("name")
		row, err := store.CityByName(c.Request.Context(), run.ID, name)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("City '%s' not found in analysis", name)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"city":           row.City,
			"region":         row.Region,
			"galamsay_sites": row.Sites,
			"flagged":        row.Flagged,
			"analysis_id":    run.ID,
			"timestamp":      run.CreatedAt,
		})
	}
}

// RegionByName returns every cleaned row in the targeted run whose region
// matches the name, ignoring case. A region with no rows yields an empty
// array.
func RegionByName(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := resolveRun(c, store)
		if !ok {
			return
		}

		rows, err := store.CitiesByRegion(c.Request.Context(), run.ID, c.Param("name"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
