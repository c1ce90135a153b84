package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/handlers"
	"github.com/kofimuad/galamsay-analysis/middleware"
	"github.com/kofimuad/galamsay-analysis/observability"
)

// SetupRoutes wires every endpoint onto the router.
func SetupRoutes(r *gin.Engine, store *database.Store) {
	r.Use(middleware.RequestID())
	r.Use(observability.Middleware())

	r.GET("/", handlers.Root())
	r.GET("/health", handlers.Health(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analyses := r.Group("/analyses")
	{
		analyses.GET("", handlers.ListAnalyses(store))
		analyses.GET("/latest", handlers.LatestAnalysis(store))
		analyses.GET("/:id", handlers.GetAnalysis(store))
	}

	metrics := r.Group("/metrics")
	{
		metrics.GET("/total-sites", handlers.TotalSites(store))
		metrics.GET("/region-highest", handlers.RegionHighest(store))
		metrics.GET("/average-per-region", handlers.AveragePerRegion(store))
		metrics.GET("/cities-exceeding-threshold", handlers.CitiesExceeding(store))
	}

	r.GET("/city/:name", handlers.CityByName(store))
	r.GET("/region/:name", handlers.RegionByName(store))
}
