package affordability

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-affordability/pkg/constants"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/iwvelando/loan-affordability/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrUnboundedSearch is returned when the inputs are too large for the
// maximum-principal search to have a finite bound.
var ErrUnboundedSearch = errors.New("borrowing capacity search has no finite bound")

// MaxBorrowResult summarizes a maximum-principal search.
type MaxBorrowResult struct {
	MaxPrincipal     float64  `json:"maxPrincipal"`
	MaxPropertyPrice float64  `json:"maxPropertyPrice"`
	PaymentCeiling   float64  `json:"paymentCeiling"`
	UpperBound       float64  `json:"upperBound"`
	Iterations       int      `json:"iterations"`
	Converged        bool     `json:"converged"`
	Saturated        bool     `json:"saturated"`
	Notes            []string `json:"notes,omitempty"`
}

// PaymentCeiling is the monthly amount left for a new loan once existing
// obligations are paid.
func (c *Calculator) PaymentCeiling(monthlyIncome, existingMonthlyObligations float64) float64 {
	return monthlyIncome*c.policy.DebtToIncomeCeiling - existingMonthlyObligations
}

// MaxBorrowable finds the largest principal whose payment plus insurance stays
// within the payment ceiling, by binary search over [0, upper bound].
//
// Total payment strictly increases with principal, so every step keeps
// payment(low) <= ceiling < payment(high). With a derived bound the search
// runs on a grid of SearchPrecision steps and returns the largest grid point
// that fits, which makes the result monotonic in every input.
func (c *Calculator) MaxBorrowable(monthlyIncome, annualRate float64, termYears int, downPayment, existingMonthlyObligations float64) (MaxBorrowResult, error) {
	if termYears <= 0 {
		return MaxBorrowResult{}, fmt.Errorf("%w: got %d", loans.ErrInvalidTerm, termYears)
	}
	if annualRate < 0 {
		return MaxBorrowResult{}, fmt.Errorf("%w: got %.4f", loans.ErrNegativeRate, annualRate)
	}

	ceiling := c.PaymentCeiling(monthlyIncome, existingMonthlyObligations)
	if math.IsNaN(ceiling) || math.IsInf(ceiling, 0) {
		return MaxBorrowResult{}, fmt.Errorf("%w: payment ceiling %g", ErrUnboundedSearch, ceiling)
	}
	if ceiling <= 0 {
		c.logger.Debug(fmt.Sprintf("payment ceiling %.2f leaves no borrowing capacity", ceiling),
			zap.String("op", "affordability.MaxBorrowable"),
		)
		return MaxBorrowResult{
			MaxPrincipal:     0,
			MaxPropertyPrice: downPayment,
			PaymentCeiling:   ceiling,
			Converged:        true,
			Notes: []string{fmt.Sprintf("existing obligations %.2f leave no room under %.0f%% of income %.2f",
				existingMonthlyObligations, mathutil.FractionToPercent(c.policy.DebtToIncomeCeiling), monthlyIncome)},
		}, nil
	}

	totalPayment := func(principal float64) float64 {
		payment, _ := loans.AmortizedPayment(principal, annualRate, termYears)
		return payment + loans.InsuranceEstimate(principal, c.policy.InsuranceRate)
	}

	precision := c.policy.SearchPrecision
	upper := c.policy.SearchUpperBound
	fixedBound := upper > 0
	if !fixedBound {
		// payment(P) >= P/n at any non-negative rate, so ceiling*n bounds every feasible principal.
		months := float64(termYears * constants.MonthsPerYear)
		upper = mathutil.NextPowerOfTwoMultiple(ceiling*months, precision)
		if math.IsInf(upper, 1) {
			return MaxBorrowResult{}, fmt.Errorf("%w: payment ceiling %g over %d months", ErrUnboundedSearch, ceiling, termYears*constants.MonthsPerYear)
		}
	}

	result := MaxBorrowResult{PaymentCeiling: ceiling, UpperBound: upper}

	var low float64
	if totalPayment(upper) <= ceiling {
		low = upper
		result.Converged = true
		if fixedBound {
			result.Saturated = true
			note := fmt.Sprintf("search bound %.2f is affordable; the true maximum may be higher", upper)
			result.Notes = append(result.Notes, note)
			c.logger.Warn("maximum principal pinned at search bound",
				zap.String("op", "affordability.MaxBorrowable"),
				zap.Float64("upperBound", upper),
				zap.Float64("paymentCeiling", ceiling),
			)
		}
	} else {
		high := upper
		for result.Iterations < c.policy.MaxIterations && high-low > precision {
			mid := low + (high-low)/2
			result.Iterations++
			if totalPayment(mid) > ceiling {
				high = mid
			} else {
				low = mid
			}
		}
		result.Converged = high-low <= precision
		if !result.Converged {
			note := fmt.Sprintf("search stopped after %d iterations with a %.2f wide interval", result.Iterations, high-low)
			result.Notes = append(result.Notes, note)
			c.logger.Warn("maximum principal search did not converge",
				zap.String("op", "affordability.MaxBorrowable"),
				zap.Int("iterations", result.Iterations),
				zap.Float64("interval", high-low),
			)
		}
	}

	result.MaxPrincipal = math.Round(low)
	result.MaxPropertyPrice = math.Round(low + downPayment)

	c.logger.Debug(fmt.Sprintf("max principal %.0f under ceiling %.2f after %d iterations",
		result.MaxPrincipal, ceiling, result.Iterations),
		zap.String("op", "affordability.MaxBorrowable"),
	)

	return result, nil
}

// MaxBorrowable runs the search with DefaultPolicy.
func MaxBorrowable(monthlyIncome, annualRate float64, termYears int, downPayment, existingMonthlyObligations float64) (MaxBorrowResult, error) {
	calculator, err := NewCalculator(nil, DefaultPolicy())
	if err != nil {
		return MaxBorrowResult{}, err
	}
	return calculator.MaxBorrowable(monthlyIncome, annualRate, termYears, downPayment, existingMonthlyObligations)
}
