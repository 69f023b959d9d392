package config

import (
	"fmt"

	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/mathutil"
)

// PolicyConfig is the file form of affordability.Policy. Rates are percents.
// Unset values keep the affordability defaults.
type PolicyConfig struct {
	InsuranceRate       *float64 `json:"insuranceRate,omitempty" yaml:"insuranceRate,omitempty" mapstructure:"insuranceRate"`
	DebtToIncomeCeiling float64  `json:"debtToIncomeCeiling,omitempty" yaml:"debtToIncomeCeiling,omitempty" mapstructure:"debtToIncomeCeiling"`
	InsureExistingLoans *bool    `json:"insureExistingLoans,omitempty" yaml:"insureExistingLoans,omitempty" mapstructure:"insureExistingLoans"`
	SearchUpperBound    float64  `json:"searchUpperBound,omitempty" yaml:"searchUpperBound,omitempty" mapstructure:"searchUpperBound"`
	SearchPrecision     float64  `json:"searchPrecision,omitempty" yaml:"searchPrecision,omitempty" mapstructure:"searchPrecision"`
	MaxIterations       int      `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// ToPolicy converts the file values to a normalized affordability.Policy.
func (p PolicyConfig) ToPolicy() affordability.Policy {
	policy := affordability.DefaultPolicy()

	if p.InsuranceRate != nil {
		policy.InsuranceRate = mathutil.PercentToFraction(*p.InsuranceRate)
	}
	if p.DebtToIncomeCeiling != 0 {
		policy.DebtToIncomeCeiling = mathutil.PercentToFraction(p.DebtToIncomeCeiling)
	}
	if p.InsureExistingLoans != nil {
		policy.InsureExistingLoans = *p.InsureExistingLoans
	}
	policy.SearchUpperBound = p.SearchUpperBound
	if p.SearchPrecision != 0 {
		policy.SearchPrecision = p.SearchPrecision
	}
	if p.MaxIterations != 0 {
		policy.MaxIterations = p.MaxIterations
	}

	policy.Normalize()
	return policy
}

func (p PolicyConfig) validate() error {
	if err := p.ToPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}
