package main

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:          "galamsay-analysis",
		Short:        "Analyzes illegal small-scale mining (galamsay) data across Ghana",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetHandler(cli.Default)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(analyzeSubcommand())
	root.AddCommand(serveSubcommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
