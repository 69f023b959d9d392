package affordability

import (
	"errors"
	"fmt"

	"github.com/iwvelando/loan-affordability/pkg/constants"
)

// ErrInvalidPolicy is returned when a Policy holds out-of-range values.
var ErrInvalidPolicy = errors.New("invalid affordability policy")

// Policy holds the tunable rules applied by a Calculator. Rates and the
// ceiling are fractions.
type Policy struct {
	// InsuranceRate is the annual insurance charge as a fraction of principal.
	InsuranceRate float64 `json:"insuranceRate"`
	// DebtToIncomeCeiling is the largest affordable share of monthly income.
	DebtToIncomeCeiling float64 `json:"debtToIncomeCeiling"`
	// InsureExistingLoans adds InsuranceEstimate to every pre-existing loan.
	InsureExistingLoans bool `json:"insureExistingLoans"`
	// SearchUpperBound fixes the maximum-principal search ceiling. Zero derives
	// a ceiling from the inputs that no feasible principal can exceed.
	SearchUpperBound float64 `json:"searchUpperBound"`
	// SearchPrecision is the width at which the search stops.
	SearchPrecision float64 `json:"searchPrecision"`
	// MaxIterations caps the number of search steps.
	MaxIterations int `json:"maxIterations"`
}

// DefaultPolicy returns the simulator's historical rules with a derived
// search bound.
func DefaultPolicy() Policy {
	return Policy{
		InsuranceRate:       constants.DefaultInsuranceRate,
		DebtToIncomeCeiling: constants.DefaultDebtToIncomeCeiling,
		InsureExistingLoans: true,
		SearchUpperBound:    0,
		SearchPrecision:     constants.DefaultSearchPrecision,
		MaxIterations:       constants.DefaultMaxIterations,
	}
}

// Normalize fills unset (zero) search and ceiling values with defaults.
// Negative values are kept for Validate to reject. A zero InsuranceRate is a
// valid choice and is kept.
func (p *Policy) Normalize() {
	if p == nil {
		return
	}
	if p.DebtToIncomeCeiling == 0 {
		p.DebtToIncomeCeiling = constants.DefaultDebtToIncomeCeiling
	}
	if p.SearchPrecision == 0 {
		p.SearchPrecision = constants.DefaultSearchPrecision
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = constants.DefaultMaxIterations
	}
}

// Validate returns an error when the policy cannot be applied.
func (p Policy) Validate() error {
	if p.InsuranceRate < 0 {
		return fmt.Errorf("%w: insurance rate %.4f cannot be negative", ErrInvalidPolicy, p.InsuranceRate)
	}
	if p.DebtToIncomeCeiling <= 0 || p.DebtToIncomeCeiling > 1 {
		return fmt.Errorf("%w: debt-to-income ceiling %.4f must be within (0, 1]", ErrInvalidPolicy, p.DebtToIncomeCeiling)
	}
	if p.SearchUpperBound < 0 {
		return fmt.Errorf("%w: search upper bound %.2f cannot be negative", ErrInvalidPolicy, p.SearchUpperBound)
	}
	if p.SearchPrecision <= 0 {
		return fmt.Errorf("%w: search precision %.4f must be positive", ErrInvalidPolicy, p.SearchPrecision)
	}
	if p.SearchUpperBound > 0 && p.SearchUpperBound < p.SearchPrecision {
		return fmt.Errorf("%w: search upper bound %.2f is below precision %.2f", ErrInvalidPolicy, p.SearchUpperBound, p.SearchPrecision)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidPolicy)
	}
	return nil
}
