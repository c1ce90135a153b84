package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kofimuad/galamsay-analysis/config"
	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/services"
)

// analyzeSubcommand returns the analyze subcommand.
func analyzeSubcommand() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analysis pipeline over the dataset and record the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.CSVPath
			}

			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			pipeline := services.NewPipeline(database.NewStore(db))
			run, err := pipeline.Run(context.Background(), csvPath)
			if err != nil {
				return err
			}

			services.WriteReport(os.Stdout, run)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "dataset to analyze (default from GALAMSAY_CSV_PATH)")
	return cmd
}
