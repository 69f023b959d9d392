package config

import (
	"strings"

	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/iwvelando/loan-affordability/pkg/mathutil"
)

// CanonicalCategory returns the canonical loan category; unset categories
// are consumer loans.
func CanonicalCategory(value string) affordability.Category {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(affordability.CategoryMortgage):
		return affordability.CategoryMortgage
	default:
		return affordability.CategoryConsumer
	}
}

// ToApplication converts a scenario into an affordability.Application.
// Common loans come first, followed by the scenario's own loans.
func (scenario *Scenario) ToApplication(common Common) affordability.Application {
	income := scenario.MonthlyIncome
	if income == 0 {
		income = common.MonthlyIncome
	}

	existing := make([]affordability.ExistingLoan, 0, len(common.Loans)+len(scenario.Loans))
	for i := range common.Loans {
		existing = append(existing, common.Loans[i].ToExistingLoan())
	}
	for i := range scenario.Loans {
		existing = append(existing, scenario.Loans[i].ToExistingLoan())
	}

	return affordability.Application{
		Price:         scenario.Price,
		DownPayment:   scenario.DownPayment,
		AnnualRate:    percentRate(scenario.InterestRate),
		TermYears:     scenario.TermYears,
		MonthlyIncome: income,
		ExistingLoans: existing,
	}
}

// NewLoanTerms returns the terms of the purchase loan. The principal may be
// negative when the down payment exceeds the price.
func (scenario *Scenario) NewLoanTerms() loans.Terms {
	return loans.Terms{
		Principal:  scenario.Price - scenario.DownPayment,
		AnnualRate: percentRate(scenario.InterestRate),
		TermYears:  scenario.TermYears,
	}
}

func percentRate(percent float64) float64 {
	return mathutil.PercentToFraction(percent)
}
