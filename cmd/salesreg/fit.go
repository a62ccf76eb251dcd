package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"salesreg/internal/app"
	"salesreg/internal/config"
	"salesreg/internal/exporter"
	"salesreg/internal/infrastructure"
	"salesreg/internal/report"
)

type fitOptions struct {
	input           string
	seed            int64
	predictionsOut  string
	coefficientsOut string
	metricsFile     string
}

func newFitCmd(configPath *string) *cobra.Command {
	var opts fitOptions

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the regression on a CSV or XLSX file and print the report",
		Long: `Reads the dataset, cleans and enriches it, shuffles the rows, fits the
model on the whole cleaned dataset and prints the first record, sample rows,
coefficients and error metrics. Nothing is printed when the run fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if opts.predictionsOut == "" {
				opts.predictionsOut = cfg.Pipeline.PredictionsOut
			}
			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			return runFit(cmd.Context(), cmd.OutOrStdout(), cfg, logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "dataset file (.csv or .xlsx)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "shuffle seed (0 uses pipeline.seed from config)")
	cmd.Flags().StringVar(&opts.predictionsOut, "predictions-out", "", "write per-row predictions and residuals to this CSV file")
	cmd.Flags().StringVar(&opts.coefficientsOut, "coefficients-out", "", "write fitted weights and scaler statistics to this CSV file")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runFit(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, opts fitOptions) error {
	a, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))

	rep, err := a.RegressionService.FitFile(ctx, opts.input, opts.seed)
	if err != nil {
		return fmt.Errorf("regression run failed: %w", err)
	}

	console := report.NewConsole(out)
	if err := console.Render(rep); err != nil {
		return err
	}

	exp := exporter.NewPredictionsExporter("", logger)
	if opts.predictionsOut != "" {
		if err := exp.ExportPredictions(rep, opts.predictionsOut); err != nil {
			return err
		}
		console.Success("predictions written to %s", opts.predictionsOut)
	}
	if opts.coefficientsOut != "" {
		if err := exp.ExportCoefficients(rep, opts.coefficientsOut); err != nil {
			return err
		}
		console.Success("coefficients written to %s", opts.coefficientsOut)
	}
	if opts.metricsFile != "" {
		if err := a.OTelProviders.WriteMetricsFile(opts.metricsFile); err != nil {
			return err
		}
		console.Success("metrics written to %s", opts.metricsFile)
	}
	if a.RegressionService.HistoryEnabled() {
		console.Info("run %s stored in %s", rep.RunID, cfg.Store.File)
	}
	return nil
}
