// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-affordability/pkg/constants"
)

// ValidateInterestRate flags implausible annual rates given in percent.
func ValidateInterestRate(label string, ratePercent float64) string {
	if ratePercent > constants.HighInterestRatePercent {
		return fmt.Sprintf("%s has an unusually high interest rate (%.2f%%)", label, ratePercent)
	}
	if ratePercent > 0 && ratePercent < constants.FractionLikeRatePercent {
		return fmt.Sprintf("%s has an interest rate of %.4f%%; rates are percentages, so 4%% is written 4 and not 0.04",
			label, ratePercent)
	}
	return ""
}

// ValidateTerm flags unusually long loan terms.
func ValidateTerm(label string, termYears int) string {
	if termYears > constants.LongTermYears {
		return fmt.Sprintf("%s runs for %d years, longer than %d", label, termYears, constants.LongTermYears)
	}
	return ""
}

// ValidateDownPayment checks the down payment against the purchase price.
func ValidateDownPayment(label string, price, downPayment float64) []string {
	var warnings []string

	if downPayment > price {
		warnings = append(warnings, fmt.Sprintf("%s down payment exceeds its price (%.2f > %.2f) and cannot be evaluated",
			label, downPayment, price))
	} else if price > 0 && downPayment == price {
		warnings = append(warnings, fmt.Sprintf("%s down payment covers the whole price; no loan is needed", label))
	}

	return warnings
}

// ConfigValidator collects the fields of a scenario file that soft validation
// looks at.
type ConfigValidator struct {
	Common    CommonConfig
	Scenarios []ScenarioConfig
}

type CommonConfig struct {
	MonthlyIncome float64
	Loans         []LoanConfig
}

type ScenarioConfig struct {
	Name          string
	Active        bool
	Price         float64
	DownPayment   float64
	InterestRate  float64
	TermYears     int
	MonthlyIncome float64
	Loans         []LoanConfig
}

type LoanConfig struct {
	Name         string
	Principal    float64
	InterestRate float64
	TermYears    int
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	active := 0
	seen := make(map[string]bool)
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true
		if scenario.Active {
			active++
		}
	}
	if len(cv.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No scenario is active; nothing will be evaluated")
	}

	for _, loan := range cv.Common.Loans {
		warnings = append(warnings, validateLoan(fmt.Sprintf("Common loan '%s'", loan.Name), loan)...)
	}

	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		label := fmt.Sprintf("Scenario '%s'", scenario.Name)

		income := scenario.MonthlyIncome
		if income == 0 {
			income = cv.Common.MonthlyIncome
		}
		if income <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s has no monthly income; it can never be affordable", label))
		}

		warnings = append(warnings, ValidateDownPayment(label, scenario.Price, scenario.DownPayment)...)
		if warning := ValidateInterestRate(label, scenario.InterestRate); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidateTerm(label, scenario.TermYears); warning != "" {
			warnings = append(warnings, warning)
		}

		for _, loan := range scenario.Loans {
			warnings = append(warnings, validateLoan(fmt.Sprintf("%s loan '%s'", label, loan.Name), loan)...)
		}
	}

	return warnings
}

func validateLoan(label string, loan LoanConfig) []string {
	var warnings []string
	if loan.Principal == 0 {
		warnings = append(warnings, fmt.Sprintf("%s has no principal and adds no obligation", label))
	}
	if warning := ValidateInterestRate(label, loan.InterestRate); warning != "" {
		warnings = append(warnings, warning)
	}
	if warning := ValidateTerm(label, loan.TermYears); warning != "" {
		warnings = append(warnings, warning)
	}
	return warnings
}
