package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/constants"
	"github.com/iwvelando/loan-affordability/pkg/format"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/iwvelando/loan-affordability/pkg/mathutil"
	"github.com/iwvelando/loan-affordability/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPaymentCommand(root *rootOptions) *cobra.Command {
	var (
		principal     float64
		rate          float64
		term          int
		insuranceRate float64
		schedule      bool
	)

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Compute the monthly payment of a fixed-rate loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer syncLogger(logger)

			terms := loans.Terms{
				Principal:  principal,
				AnnualRate: mathutil.PercentToFraction(rate),
				TermYears:  term,
			}
			insurance := mathutil.PercentToFraction(insuranceRate)
			if insurance < 0 {
				return fmt.Errorf("insurance %w: got %.4f", loans.ErrNegativeRate, insurance)
			}

			payment, err := loans.AmortizedPayment(terms.Principal, terms.AnnualRate, terms.TermYears)
			if err != nil {
				return err
			}
			monthlyInsurance := loans.InsuranceEstimate(terms.Principal, insurance)

			logger.Debug(fmt.Sprintf("payment %.4f on principal %.2f", payment, principal),
				zap.String("op", "main.payment"),
			)

			w := cmd.OutOrStdout()
			if err := writeRows(w, [][2]string{
				{"Principal", format.Amount(terms.Principal)},
				{"Monthly payment", format.Amount(payment)},
				{"Monthly insurance", format.Amount(monthlyInsurance)},
				{"Total monthly payment", format.Amount(payment + monthlyInsurance)},
			}); err != nil {
				return err
			}

			if !schedule {
				return nil
			}
			rows, err := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(terms, insurance)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			return output.PrettySchedule(w, rows)
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", 0, "loan principal")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&term, "term", 0, "loan term in years")
	cmd.Flags().Float64Var(&insuranceRate, "insurance-rate", mathutil.FractionToPercent(constants.DefaultInsuranceRate),
		"annual insurance rate in percent of the principal")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "print the amortization schedule")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func newMaxBorrowableCommand(root *rootOptions) *cobra.Command {
	var (
		income       float64
		rate         float64
		term         int
		downPayment  float64
		obligations  float64
		policyConfig config.PolicyConfig

		insuranceRate  float64
		insureExisting bool
	)

	cmd := &cobra.Command{
		Use:   "max-borrowable",
		Short: "Find the largest loan an income can carry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer syncLogger(logger)

			if cmd.Flags().Changed("insurance-rate") {
				policyConfig.InsuranceRate = &insuranceRate
			}
			if cmd.Flags().Changed("insure-existing-loans") {
				policyConfig.InsureExistingLoans = &insureExisting
			}

			calculator, err := affordability.NewCalculator(logger, policyConfig.ToPolicy())
			if err != nil {
				return err
			}

			result, err := calculator.MaxBorrowable(income, mathutil.PercentToFraction(rate), term, downPayment, obligations)
			if err != nil {
				return err
			}

			return writeMaxBorrowable(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "gross monthly income")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&term, "term", 0, "loan term in years")
	cmd.Flags().Float64Var(&downPayment, "down-payment", 0, "down payment added to the maximum principal")
	cmd.Flags().Float64Var(&obligations, "obligations", 0, "existing monthly debt obligations")
	cmd.Flags().Float64Var(&insuranceRate, "insurance-rate", 0, "annual insurance rate in percent of the principal")
	cmd.Flags().BoolVar(&insureExisting, "insure-existing-loans", true, "charge insurance on existing loans")
	cmd.Flags().Float64Var(&policyConfig.DebtToIncomeCeiling, "ceiling", 0, "debt-to-income ceiling in percent (default 33)")
	cmd.Flags().Float64Var(&policyConfig.SearchUpperBound, "search-upper-bound", 0, "fixed search bound; 0 derives one from the payment ceiling")
	cmd.Flags().Float64Var(&policyConfig.SearchPrecision, "search-precision", 0, "search precision (default 1)")
	cmd.Flags().IntVar(&policyConfig.MaxIterations, "max-iterations", 0, "search iteration cap (default 64)")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func writeMaxBorrowable(w io.Writer, result affordability.MaxBorrowResult) error {
	if err := writeRows(w, [][2]string{
		{"Payment ceiling", format.Amount(result.PaymentCeiling)},
		{"Max principal", format.Whole(result.MaxPrincipal)},
		{"Max property price", format.Whole(result.MaxPropertyPrice)},
		{"Search iterations", fmt.Sprintf("%d", result.Iterations)},
	}); err != nil {
		return err
	}
	for _, note := range result.Notes {
		if _, err := fmt.Fprintf(w, "Note: %s\n", note); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(w io.Writer, rows [][2]string) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-24s | %s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
