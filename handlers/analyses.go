package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kofimuad/galamsay-analysis/database"
)

// listQuery bounds pagination for the run listing.
type listQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAnalyses returns runs newest first, without their city snapshots. An
// empty database yields an empty array, not an error.
func ListAnalyses(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination: " + err.Error()})
			return
		}

		runs, err := store.ListRuns(c.Request.Context(), q.Offset, q.Limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, runs)
	}
}

// LatestAnalysis returns the most recent run with all of its city rows.
func LatestAnalysis(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := store.LatestRun(c.Request.Context())
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "No analysis runs found in database. Run the analyze command first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// GetAnalysis returns one run by id with all of its city rows.
func GetAnalysis(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis ID"})
			return
		}

		run, err := store.RunByID(c.Request.Context(), uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Analysis run with ID %d not found", id)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}
