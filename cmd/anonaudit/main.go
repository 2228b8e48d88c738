// Package main contains the CLI implementation of the tool. It uses the
// cobra package for CLI implementation, the way smf's own cmd/smf does.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anonaudit/internal/config"
	"anonaudit/internal/fingerprint"
	"anonaudit/internal/ingest"
	"anonaudit/internal/logging"
	"anonaudit/internal/model"
	"anonaudit/internal/validator"
)

type analyzeFlags struct {
	inFile     string
	outFile    string
	configFile string
	output     string
}

func main() {
	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "anonaudit",
		Short: "Anonymization-audit engine",
	}
	rootCmd.AddCommand(analyzeCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Sugar().Error(err)
		os.Exit(1)
	}
}

func analyzeCmd(logger *zap.Logger) *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Audit an anonymized dataset against its input",
		Long: `Loads an input and an output dataset (CSV files, or live database
tables configured in [ingest]), runs equivalence-class discovery, privacy
model verification, summary statistics, and attacker-risk analysis, and
writes the resulting report as JSON.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runAnalyze(logger, flags)
		},
	}

	cmd.Flags().StringVar(&flags.inFile, "in", "", "Path to the input (pre-anonymization) CSV file")
	cmd.Flags().StringVar(&flags.outFile, "out", "", "Path to the output (anonymized) CSV file")
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Path to the TOML configuration file (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file for the report (stdout if empty)")

	return cmd
}

func runAnalyze(logger *zap.Logger, flags *analyzeFlags) error {
	if flags.configFile == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := config.ParseFile(flags.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()
	input, inErr := loadSide(ctx, logger, cfg, flags.inFile, cfg.IngestInputQuery, "input")
	output, outErr := loadSide(ctx, logger, cfg, flags.outFile, cfg.IngestOutputQuery, "output")

	if inErr != nil {
		logger.Warn("input data read failed, skipping analysis for input")
	}
	if outErr != nil {
		logger.Warn("output data read failed, skipping analysis for output")
	}

	v, err := validator.New(logger, input, output, cfg)
	if err != nil {
		return fmt.Errorf("module is unable to produce meaningful output without proper input data: %w", err)
	}

	outcome, err := v.AnalyzeAndValidate()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if input != nil {
		if fp, err := fingerprint.TableFingerprint(input); err == nil {
			logger.Info("input dataset fingerprint", zap.String("fingerprint", fp))
		}
	}
	if output != nil {
		if fp, err := fingerprint.TableFingerprint(output); err == nil {
			logger.Info("output dataset fingerprint", zap.String("fingerprint", fp))
		}
	}
	logger.Info("run identifier", zap.String("run_id", fingerprint.NewRunID()))

	return writeOutput(outcome.JSON, flags.output)
}

// loadSide loads one side of the comparison: a live query if [ingest] is
// configured for this driver, otherwise the given CSV path. An empty path
// with no ingest configuration means this side is simply absent.
func loadSide(ctx context.Context, logger *zap.Logger, cfg *config.Config, path, query, label string) (*model.Table, error) {
	if cfg.IngestDriver != "" && query != "" {
		t, err := ingest.LoadLiveTable(ctx, cfg.IngestDriver, cfg.IngestDSN, query, label)
		if err != nil {
			logger.Warn("live table ingestion failed", zap.String("side", label))
			return nil, err
		}
		return t, nil
	}

	if path == "" {
		return nil, nil
	}
	return ingest.LoadCSV(path)
}

func writeOutput(content, outFile string) error {
	if outFile == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("report saved to %s\n", outFile)
	return nil
}
