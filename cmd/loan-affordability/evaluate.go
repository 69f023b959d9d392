package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-affordability/internal/assessment"
	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/pkg/constants"
	"github.com/iwvelando/loan-affordability/pkg/output"
	"github.com/iwvelando/loan-affordability/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEvaluateCommand(root *rootOptions) *cobra.Command {
	var (
		configLocation string
		outputFormat   string
		schedule       bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every active scenario of a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configLocation); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("configuration file %s not found; copy %s to start", configLocation, constants.ExampleConfigFile)
			}

			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}

			logger, err := initializeLogger(conf.Logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer syncLogger(logger)

			// CLI override takes precedence over config
			format := conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.evaluate"),
				)
			}

			results, err := assessment.GetAssessments(logger, *conf, assessment.Options{Schedule: schedule})
			if err != nil {
				return fmt.Errorf("failed to assess scenarios: %w", err)
			}

			switch format {
			case constants.OutputFormatCSV:
				if err := output.CsvFormat(cmd.OutOrStdout(), results); err != nil {
					return err
				}
				if !schedule {
					return nil
				}
				for _, result := range results {
					if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
						return err
					}
					if err := output.ScheduleCsvFormat(cmd.OutOrStdout(), result.Name, result.Schedule); err != nil {
						return err
					}
					for _, loan := range result.LoanSchedules {
						if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
							return err
						}
						label := output.LoanScheduleLabel(result.Name, loan.Name)
						if err := output.ScheduleCsvFormat(cmd.OutOrStdout(), label, loan.Schedule); err != nil {
							return err
						}
					}
				}
				return nil
			default:
				return output.PrettyFormat(cmd.OutOrStdout(), results)
			}
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "include the amortization schedule of each purchase loan")

	return cmd
}
