// Package assessment runs the scenarios of a configuration through the
// affordability calculator.
package assessment

import (
	"fmt"

	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/format"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/iwvelando/loan-affordability/pkg/metrics"
	"go.uber.org/zap"
)

// Assessment holds the evaluation of one scenario.
type Assessment struct {
	Name          string                            `json:"name" yaml:"name"`
	Application   affordability.Application         `json:"-" yaml:"-"`
	Affordability affordability.AffordabilityResult `json:"affordability" yaml:"affordability"`
	Capacity      affordability.MaxBorrowResult     `json:"capacity" yaml:"capacity"`
	Schedule      []loans.Payment                   `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	LoanSchedules []LoanSchedule                    `json:"loanSchedules,omitempty" yaml:"loanSchedules,omitempty"`
	Notes         []string                          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// LoanSchedule is the amortization schedule of one existing loan.
type LoanSchedule struct {
	Name     string          `json:"name" yaml:"name"`
	Schedule []loans.Payment `json:"schedule" yaml:"schedule"`
}

// Options selects optional parts of an assessment.
type Options struct {
	// Schedule adds the amortization schedules of the purchase loan and of
	// every existing loan.
	Schedule bool
}

// GetAssessments evaluates every active scenario, in file order.
func GetAssessments(logger *zap.Logger, conf config.Configuration, opts Options) ([]Assessment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := conf.Policy.ToPolicy()
	calculator, err := affordability.NewCalculator(logger, policy)
	if err != nil {
		return nil, err
	}

	var results []Assessment
	for i := range conf.Scenarios {
		scenario := &conf.Scenarios[i]
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "assessment.GetAssessments"),
			)
			continue
		}

		result, err := assess(logger, calculator, scenario, conf.Common, opts)
		metrics.ObserveComputation(metrics.OperationAssessment, err)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		metrics.ObserveSearch(result.Capacity.Iterations, result.Capacity.Converged, result.Capacity.Saturated)

		logger.Info(fmt.Sprintf("scenario %s: ratio %s, max price %s",
			scenario.Name, format.Percent(result.Affordability.DebtToIncomeRatio, 1), format.Whole(result.Capacity.MaxPropertyPrice)),
			zap.String("op", "assessment.GetAssessments"),
			zap.Bool("affordable", result.Affordability.IsAffordable),
		)

		results = append(results, result)
	}

	return results, nil
}

func assess(logger *zap.Logger, calculator *affordability.Calculator, scenario *config.Scenario, common config.Common, opts Options) (Assessment, error) {
	app := scenario.ToApplication(common)
	result := Assessment{Name: scenario.Name, Application: app}

	evaluation, err := calculator.Evaluate(app)
	if err != nil {
		return result, err
	}
	result.Affordability = evaluation

	capacity, err := calculator.Capacity(app)
	if err != nil {
		return result, err
	}
	result.Capacity = capacity

	policy := calculator.Policy()
	if !evaluation.IsAffordable {
		if app.MonthlyIncome <= 0 {
			result.Notes = append(result.Notes, "no monthly income; the purchase cannot be affordable")
		} else {
			result.Notes = append(result.Notes, fmt.Sprintf("debt-to-income ratio %s exceeds the %s ceiling",
				format.Percent(evaluation.DebtToIncomeRatio, 1), format.Percent(policy.DebtToIncomeCeiling, 0)))
		}
	}
	result.Notes = append(result.Notes, capacity.Notes...)

	if opts.Schedule {
		generator := loans.NewAmortizationScheduleGenerator(logger)
		schedule, err := generator.GenerateSchedule(scenario.NewLoanTerms(), policy.InsuranceRate)
		if err != nil {
			return result, err
		}
		result.Schedule = schedule

		loanSchedules, err := existingLoanSchedules(logger, policy, common.Loans, scenario.Loans)
		if err != nil {
			return result, err
		}
		result.LoanSchedules = loanSchedules
	}

	return result, nil
}

// existingLoanSchedules amortizes the common loans, then the scenario loans.
// Insurance is charged only when the policy insures existing loans.
func existingLoanSchedules(logger *zap.Logger, policy affordability.Policy, groups ...[]config.Loan) ([]LoanSchedule, error) {
	insuranceRate := 0.0
	if policy.InsureExistingLoans {
		insuranceRate = policy.InsuranceRate
	}

	var schedules []LoanSchedule
	for _, group := range groups {
		for i := range group {
			loan := &group[i]
			name := loan.Name
			if name == "" {
				name = fmt.Sprintf("#%d", len(schedules)+1)
			}
			schedule, err := loan.GetAmortizationSchedule(logger, insuranceRate)
			if err != nil {
				return nil, fmt.Errorf("existing loan %s: %w", name, err)
			}
			schedules = append(schedules, LoanSchedule{Name: name, Schedule: schedule})
		}
	}
	return schedules, nil
}
