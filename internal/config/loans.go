package config

import (
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"go.uber.org/zap"
)

// Loan is an existing loan as written in the scenario file. InterestRate is
// an annual percentage and TermYears is the remaining term.
type Loan struct {
	Name         string  `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Category     string  `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category" validate:"loancategory"`
	Principal    float64 `json:"principal" yaml:"principal" mapstructure:"principal" validate:"gte=0"`
	InterestRate float64 `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate" validate:"gte=0"`
	TermYears    int     `json:"termYears" yaml:"termYears" mapstructure:"termYears" validate:"gt=0"`
}

// GetAmortizationSchedule computes the month-by-month schedule of a Loan.
func (loan *Loan) GetAmortizationSchedule(logger *zap.Logger, annualInsuranceRate float64) ([]loans.Payment, error) {
	generator := loans.NewAmortizationScheduleGenerator(logger)
	return generator.GenerateSchedule(loan.ToTerms(), annualInsuranceRate)
}

// ToTerms converts the loan to fraction-based loan terms.
func (loan *Loan) ToTerms() loans.Terms {
	return loans.Terms{
		Principal:  loan.Principal,
		AnnualRate: percentRate(loan.InterestRate),
		TermYears:  loan.TermYears,
	}
}

// ToExistingLoan converts the loan for affordability computations.
func (loan *Loan) ToExistingLoan() affordability.ExistingLoan {
	return affordability.ExistingLoan{
		Name:     loan.Name,
		Category: CanonicalCategory(loan.Category),
		Terms:    loan.ToTerms(),
	}
}
