// Package loans provides common loan processing utilities.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-affordability/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrInvalidTerm is returned when a loan term is not a positive number of years.
	ErrInvalidTerm = errors.New("loan term must be at least one year")
	// ErrNegativeRate is returned when an annual interest or insurance rate is negative.
	ErrNegativeRate = errors.New("annual rate cannot be negative")
	// ErrNegativePrincipal is returned when the amount borrowed is negative.
	ErrNegativePrincipal = errors.New("principal cannot be negative")
)

// Terms describes a fixed-rate, fully amortizing loan. AnnualRate is a
// fraction (0.04 for 4%).
type Terms struct {
	Principal  float64
	AnnualRate float64
	TermYears  int
}

// Months returns the number of monthly payments.
func (t Terms) Months() int {
	return t.TermYears * constants.MonthsPerYear
}

// Validate reports the first constraint the terms violate.
func (t Terms) Validate() error {
	if t.TermYears <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTerm, t.TermYears)
	}
	if t.AnnualRate < 0 {
		return fmt.Errorf("%w: got %.4f", ErrNegativeRate, t.AnnualRate)
	}
	if t.Principal < 0 {
		return fmt.Errorf("%w: got %.2f", ErrNegativePrincipal, t.Principal)
	}
	return nil
}

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month" yaml:"month"`
	Payment            float64 `json:"payment" yaml:"payment"`
	Principal          float64 `json:"principal" yaml:"principal"`
	Interest           float64 `json:"interest" yaml:"interest"`
	Insurance          float64 `json:"insurance" yaml:"insurance"`
	RemainingPrincipal float64 `json:"remainingPrincipal" yaml:"remainingPrincipal"`
}

// AmortizedPayment calculates the monthly payment for a loan using the standard
// amortization formula. A zero rate degrades to straight-line repayment.
func AmortizedPayment(principal, annualRate float64, termYears int) (float64, error) {
	terms := Terms{Principal: principal, AnnualRate: annualRate, TermYears: termYears}
	if err := terms.Validate(); err != nil {
		return 0, err
	}
	return monthlyPayment(terms), nil
}

// monthlyPayment assumes validated terms.
func monthlyPayment(t Terms) float64 {
	n := float64(t.Months())
	periodicInterestRate := t.AnnualRate / constants.MonthsPerYear
	if periodicInterestRate == 0 {
		return t.Principal / n
	}
	power := math.Pow(1.00+periodicInterestRate, n)
	return t.Principal * periodicInterestRate * power / (power - 1.00)
}

// InsuranceEstimate returns the flat monthly insurance charge for a principal.
func InsuranceEstimate(principal, annualInsuranceRate float64) float64 {
	return principal * annualInsuranceRate / constants.MonthsPerYear
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * annualRate / constants.MonthsPerYear
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan. The
// insurance charge is constant over the term because it is computed on the
// initial principal.
func (g *AmortizationScheduleGenerator) GenerateSchedule(terms Terms, annualInsuranceRate float64) ([]Payment, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if annualInsuranceRate < 0 {
		return nil, fmt.Errorf("insurance %w: got %.4f", ErrNegativeRate, annualInsuranceRate)
	}

	payment := monthlyPayment(terms)
	insurance := InsuranceEstimate(terms.Principal, annualInsuranceRate)
	months := terms.Months()

	schedule := make([]Payment, 0, months)
	remaining := terms.Principal
	for month := 1; month <= months; month++ {
		var current Payment
		current.Month = month
		current.Insurance = insurance
		current.Interest = CalculateInterestPayment(remaining, terms.AnnualRate)
		current.Principal = payment - current.Interest
		current.Payment = payment + insurance

		if month == months {
			// Absorb floating point drift so the loan closes at exactly zero.
			current.Principal = remaining
			current.Payment = current.Principal + current.Interest + insurance
			current.RemainingPrincipal = 0.00
		} else {
			current.RemainingPrincipal = remaining - current.Principal
		}
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	g.logger.Debug(fmt.Sprintf("generated %d month schedule for principal %.2f at %.4f",
		months, terms.Principal, terms.AnnualRate),
		zap.String("op", "loans.GenerateSchedule"),
	)

	return schedule, nil
}

// TotalInterest sums the interest column of a schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Interest
	}
	return total
}

// TotalPaid sums every payment of a schedule, insurance included.
func TotalPaid(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Payment
	}
	return total
}
