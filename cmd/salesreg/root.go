package main

import (
	"github.com/spf13/cobra"

	"salesreg/internal/config"
)

// newRootCmd builds the salesreg command tree
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     config.AppName,
		Short:   "Units sold regression over book sales exports",
		Version: config.AppVersion,
		Long: `Fits a multivariate linear regression that predicts units sold from
publishing year, book rating, gross sales, sale price and the average rating
of the publisher. Runs either once from the command line or as an HTTP service.`,
		Example: `  # Fit a CSV export with a fixed shuffle seed
  $ salesreg fit --input books.csv --seed 42

  # Also write per-row predictions and the fitted coefficients
  $ salesreg fit -i books.xlsx --predictions-out pred.csv --coefficients-out coef.csv

  # Start the HTTP service
  $ salesreg serve --config configs/salesreg.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: salesreg.yaml or configs/salesreg.yaml)")

	root.AddCommand(newFitCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	return root
}
