package main

import (
	"fmt"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kofimuad/galamsay-analysis/config"
	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/routes"
)

// serveSubcommand returns the serve subcommand.
func serveSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the recorded analysis results over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.Default()
			routes.SetupRoutes(r, database.NewStore(db))

			log.Infof("server listening on %s", cfg.Addr())
			if err := r.Run(cfg.Addr()); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}
}
