package config

import (
	"math"
	"testing"

	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/constants"
)

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected affordability.Category
	}{
		{"mortgage", affordability.CategoryMortgage},
		{" Mortgage ", affordability.CategoryMortgage},
		{"consumer", affordability.CategoryConsumer},
		{"", affordability.CategoryConsumer},
	}

	for _, tt := range tests {
		if got := CanonicalCategory(tt.input); got != tt.expected {
			t.Errorf("CanonicalCategory(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestScenarioToApplication(t *testing.T) {
	common := Common{
		MonthlyIncome: 2000,
		Loans: []Loan{
			{Name: "car", Principal: 10000, InterestRate: 2, TermYears: 10},
		},
	}
	scenario := Scenario{
		Name:         "house",
		Price:        250000,
		DownPayment:  20000,
		InterestRate: 4,
		TermYears:    25,
		Loans: []Loan{
			{Name: "renovation", Category: "mortgage", Principal: 30000, InterestRate: 5, TermYears: 15},
		},
	}

	app := scenario.ToApplication(common)

	if app.Price != 250000 || app.DownPayment != 20000 || app.TermYears != 25 {
		t.Errorf("application = %+v", app)
	}
	if math.Abs(app.AnnualRate-0.04) > 1e-12 {
		t.Errorf("AnnualRate = %v, expected 0.04", app.AnnualRate)
	}
	if app.MonthlyIncome != 2000 {
		t.Errorf("MonthlyIncome = %v, expected the common income", app.MonthlyIncome)
	}
	if len(app.ExistingLoans) != 2 {
		t.Fatalf("expected 2 existing loans, got %d", len(app.ExistingLoans))
	}
	if app.ExistingLoans[0].Name != "car" || app.ExistingLoans[0].Category != affordability.CategoryConsumer {
		t.Errorf("first loan = %+v", app.ExistingLoans[0])
	}
	renovation := app.ExistingLoans[1]
	if renovation.Category != affordability.CategoryMortgage || math.Abs(renovation.Terms.AnnualRate-0.05) > 1e-12 {
		t.Errorf("second loan = %+v", renovation)
	}

	scenario.MonthlyIncome = 6500
	if app := scenario.ToApplication(common); app.MonthlyIncome != 6500 {
		t.Errorf("MonthlyIncome = %v, expected the scenario override", app.MonthlyIncome)
	}
}

func TestScenarioNewLoanTerms(t *testing.T) {
	scenario := Scenario{Price: 100000, DownPayment: 150000, InterestRate: 3, TermYears: 10}
	terms := scenario.NewLoanTerms()
	if terms.Principal != -50000 {
		t.Errorf("Principal = %v, expected -50000", terms.Principal)
	}
	if terms.Months() != 120 {
		t.Errorf("Months() = %d, expected 120", terms.Months())
	}
}

func TestPolicyConfigToPolicy(t *testing.T) {
	insurance := 0.0
	insureExisting := false

	tests := []struct {
		name     string
		input    PolicyConfig
		expected affordability.Policy
	}{
		{
			name:     "Empty keeps defaults",
			input:    PolicyConfig{},
			expected: affordability.DefaultPolicy(),
		},
		{
			name: "Percent values are converted",
			input: PolicyConfig{
				InsuranceRate:       &insurance,
				DebtToIncomeCeiling: 40,
				InsureExistingLoans: &insureExisting,
				SearchUpperBound:    constants.LegacySearchUpperBound,
				SearchPrecision:     0.5,
				MaxIterations:       80,
			},
			expected: affordability.Policy{
				InsuranceRate:       0,
				DebtToIncomeCeiling: 0.4,
				InsureExistingLoans: false,
				SearchUpperBound:    constants.LegacySearchUpperBound,
				SearchPrecision:     0.5,
				MaxIterations:       80,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.ToPolicy()
			if got != tt.expected {
				t.Errorf("ToPolicy() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}
