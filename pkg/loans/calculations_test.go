package loans

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestAmortizedPayment(t *testing.T) {
	tests := []struct {
		name          string
		principal     float64
		annualRate    float64
		termYears     int
		expectedRange []float64 // [min, max] expected range
	}{
		{
			name:          "Standard 30-year mortgage",
			principal:     240000,
			annualRate:    0.06,
			termYears:     30,
			expectedRange: []float64{1438, 1440}, // Around $1438.92
		},
		{
			name:          "5-year car loan",
			principal:     20000,
			annualRate:    0.04,
			termYears:     5,
			expectedRange: []float64{368, 369}, // Around $368.33
		},
		{
			name:          "25-year purchase at 4%",
			principal:     230000,
			annualRate:    0.04,
			termYears:     25,
			expectedRange: []float64{1213.95, 1214.05}, // Around $1214.02
		},
		{
			name:          "Zero principal",
			principal:     0,
			annualRate:    0.05,
			termYears:     5,
			expectedRange: []float64{0, 0},
		},
		{
			name:          "High interest loan",
			principal:     10000,
			annualRate:    0.18,
			termYears:     3,
			expectedRange: []float64{361, 362}, // Around $361.52
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AmortizedPayment(tt.principal, tt.annualRate, tt.termYears)
			if err != nil {
				t.Fatalf("AmortizedPayment() error = %v", err)
			}

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("AmortizedPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestAmortizedPaymentZeroRateIsStraightLine(t *testing.T) {
	tests := []struct {
		principal float64
		termYears int
	}{
		{120000, 10},
		{12000, 5},
		{99999, 7},
		{1, 30},
	}

	for _, tt := range tests {
		result, err := AmortizedPayment(tt.principal, 0, tt.termYears)
		if err != nil {
			t.Fatalf("AmortizedPayment() error = %v", err)
		}
		expected := tt.principal / float64(tt.termYears*12)
		if result != expected {
			t.Errorf("AmortizedPayment(%v, 0, %d) = %v, expected exactly %v", tt.principal, tt.termYears, result, expected)
		}
	}

	result, _ := AmortizedPayment(120000, 0, 10)
	if result != 1000.0 {
		t.Errorf("AmortizedPayment(120000, 0, 10) = %v, expected exactly 1000", result)
	}
}

func TestAmortizedPaymentExceedsPrincipalWithInterest(t *testing.T) {
	for _, principal := range []float64{1, 1000, 230000, 999999} {
		for _, rate := range []float64{0.001, 0.02, 0.04, 0.1} {
			for _, term := range []int{1, 5, 25, 30} {
				payment, err := AmortizedPayment(principal, rate, term)
				if err != nil {
					t.Fatalf("AmortizedPayment() error = %v", err)
				}
				if payment <= 0 {
					t.Errorf("AmortizedPayment(%v, %v, %d) = %v, expected > 0", principal, rate, term, payment)
				}
				if payment*float64(term*12) <= principal {
					t.Errorf("AmortizedPayment(%v, %v, %d) total %v does not exceed principal", principal, rate, term, payment*float64(term*12))
				}
			}
		}
	}
}

func TestAmortizedPaymentErrors(t *testing.T) {
	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		termYears  int
		wantErr    error
	}{
		{"Zero term", 100000, 0.04, 0, ErrInvalidTerm},
		{"Zero term zero rate", 100000, 0, 0, ErrInvalidTerm},
		{"Negative term", 100000, 0.04, -5, ErrInvalidTerm},
		{"Negative rate", 100000, -0.01, 10, ErrNegativeRate},
		{"Negative principal", -1, 0.04, 10, ErrNegativePrincipal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AmortizedPayment(tt.principal, tt.annualRate, tt.termYears)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AmortizedPayment() error = %v, expected %v", err, tt.wantErr)
			}
			if result != 0 {
				t.Errorf("AmortizedPayment() = %v on error, expected 0", result)
			}
		})
	}
}

func TestInsuranceEstimate(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		expected  float64
	}{
		{"Default rate", 230000, 0.004, 76.666666},
		{"Zero principal", 0, 0.004, 0},
		{"Zero rate", 230000, 0, 0},
		{"Higher rate", 120000, 0.01, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InsuranceEstimate(tt.principal, tt.rate)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("InsuranceEstimate() = %.4f, expected %.4f", result, tt.expected)
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualRate         float64
		expected           float64
	}{
		{"Standard mortgage interest", 200000, 0.06, 1000.0},
		{"Car loan interest", 15000, 0.045, 56.25},
		{"Zero interest", 10000, 0.0, 0.0},
		{"Very small principal", 100, 0.06, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualRate)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestGenerateScheduleClosesLoan(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	tests := []struct {
		name  string
		terms Terms
	}{
		{"Interest bearing", Terms{Principal: 230000, AnnualRate: 0.04, TermYears: 25}},
		{"Zero rate", Terms{Principal: 120000, AnnualRate: 0, TermYears: 10}},
		{"Short term", Terms{Principal: 5000, AnnualRate: 0.12, TermYears: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := generator.GenerateSchedule(tt.terms, 0.004)
			if err != nil {
				t.Fatalf("GenerateSchedule() error = %v", err)
			}
			if len(schedule) != tt.terms.Months() {
				t.Fatalf("expected %d payments, got %d", tt.terms.Months(), len(schedule))
			}

			last := schedule[len(schedule)-1]
			if last.RemainingPrincipal != 0 {
				t.Errorf("final remaining principal = %.2f, expected 0", last.RemainingPrincipal)
			}

			principalPaid := 0.0
			previous := tt.terms.Principal
			for _, p := range schedule {
				principalPaid += p.Principal
				if p.RemainingPrincipal > previous {
					t.Errorf("month %d balance %.2f increased from %.2f", p.Month, p.RemainingPrincipal, previous)
				}
				previous = p.RemainingPrincipal
			}
			if math.Abs(principalPaid-tt.terms.Principal) > 0.01 {
				t.Errorf("principal column sums to %.2f, expected %.2f", principalPaid, tt.terms.Principal)
			}

			expectedInsurance := InsuranceEstimate(tt.terms.Principal, 0.004)
			if math.Abs(schedule[0].Insurance-expectedInsurance) > 1e-9 {
				t.Errorf("insurance = %.4f, expected %.4f", schedule[0].Insurance, expectedInsurance)
			}

			totalInterest := TotalInterest(schedule)
			totalPaid := TotalPaid(schedule)
			expectedPaid := tt.terms.Principal + totalInterest + expectedInsurance*float64(len(schedule))
			if math.Abs(totalPaid-expectedPaid) > 0.01 {
				t.Errorf("TotalPaid() = %.2f, expected %.2f", totalPaid, expectedPaid)
			}
		})
	}
}

func TestGenerateScheduleRejectsInvalidTerms(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	if _, err := generator.GenerateSchedule(Terms{Principal: 1000, AnnualRate: 0.04, TermYears: 0}, 0.004); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("expected ErrInvalidTerm, got %v", err)
	}
	if _, err := generator.GenerateSchedule(Terms{Principal: 1000, AnnualRate: 0.04, TermYears: 5}, -0.004); !errors.Is(err, ErrNegativeRate) {
		t.Errorf("expected ErrNegativeRate for insurance, got %v", err)
	}
}
