// Package affordability decides whether a purchase loan fits a borrower's
// income and inverts that decision to find the largest loan that does.
//
// Every computation is a pure function of its arguments; a Calculator only
// carries an immutable Policy and a logger and is safe for concurrent use.
package affordability

import (
	"fmt"

	"github.com/iwvelando/loan-affordability/pkg/constants"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"go.uber.org/zap"
)

// LoanTerms describes one fixed-rate loan; AnnualRate is a fraction.
type LoanTerms = loans.Terms

// Category groups existing loans for display. It never affects arithmetic.
type Category string

const (
	CategoryMortgage Category = "mortgage"
	CategoryConsumer Category = "consumer"
)

// ExistingLoan is a loan the borrower already repays.
type ExistingLoan struct {
	Name     string
	Category Category
	Terms    LoanTerms
}

// LoanObligation is an existing loan with its derived monthly cost.
type LoanObligation struct {
	Name             string   `json:"name"`
	Category         Category `json:"category,omitempty"`
	Principal        float64  `json:"principal"`
	AnnualRate       float64  `json:"annualRate"`
	TermYears        int      `json:"termYears"`
	MonthlyPayment   float64  `json:"monthlyPayment"`
	MonthlyInsurance float64  `json:"monthlyInsurance"`
}

// Total is the monthly payment including insurance.
func (o LoanObligation) Total() float64 {
	return o.MonthlyPayment + o.MonthlyInsurance
}

// Application gathers the caller-supplied inputs of one affordability check.
type Application struct {
	Price         float64
	DownPayment   float64
	AnnualRate    float64
	TermYears     int
	MonthlyIncome float64
	ExistingLoans []ExistingLoan
}

// AffordabilityResult is the verdict for one Application.
type AffordabilityResult struct {
	Principal                   float64          `json:"principal"`
	MonthlyPaymentExclInsurance float64          `json:"monthlyPaymentExclInsurance"`
	MonthlyInsurance            float64          `json:"monthlyInsurance"`
	TotalMonthlyPayment         float64          `json:"totalMonthlyPayment"`
	ExistingObligationsTotal    float64          `json:"existingObligationsTotal"`
	DebtToIncomeRatio           float64          `json:"debtToIncomeRatio"`
	IsAffordable                bool             `json:"isAffordable"`
	Obligations                 []LoanObligation `json:"obligations,omitempty"`
}

// NewLoanMonthlyPayment is the new loan's payment plus its insurance.
func (r AffordabilityResult) NewLoanMonthlyPayment() float64 {
	return r.MonthlyPaymentExclInsurance + r.MonthlyInsurance
}

// Calculator applies a Policy to affordability questions.
type Calculator struct {
	logger *zap.Logger
	policy Policy
}

// NewCalculator normalizes and validates the policy.
func NewCalculator(logger *zap.Logger, policy Policy) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy.Normalize()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{logger: logger, policy: policy}, nil
}

// Policy returns the normalized policy in use.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Obligations prices every existing loan. The input slice is not modified.
func (c *Calculator) Obligations(existing []ExistingLoan) ([]LoanObligation, error) {
	obligations := make([]LoanObligation, 0, len(existing))
	for i, loan := range existing {
		name := loan.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		payment, err := loans.AmortizedPayment(loan.Terms.Principal, loan.Terms.AnnualRate, loan.Terms.TermYears)
		if err != nil {
			return nil, fmt.Errorf("existing loan %s: %w", name, err)
		}
		obligation := LoanObligation{
			Name:           name,
			Category:       loan.Category,
			Principal:      loan.Terms.Principal,
			AnnualRate:     loan.Terms.AnnualRate,
			TermYears:      loan.Terms.TermYears,
			MonthlyPayment: payment,
		}
		if c.policy.InsureExistingLoans {
			obligation.MonthlyInsurance = loans.InsuranceEstimate(loan.Terms.Principal, c.policy.InsuranceRate)
		}
		obligations = append(obligations, obligation)
	}
	return obligations, nil
}

// ExistingObligationsTotal sums the monthly cost of every existing loan.
func (c *Calculator) ExistingObligationsTotal(existing []ExistingLoan) (float64, error) {
	obligations, err := c.Obligations(existing)
	if err != nil {
		return 0, err
	}
	return sumObligations(obligations), nil
}

func sumObligations(obligations []LoanObligation) float64 {
	total := 0.0
	for _, o := range obligations {
		total += o.Total()
	}
	return total
}

// Evaluate computes payments and the debt-to-income verdict for a purchase.
// A down payment larger than the price is reported, never clamped. Zero
// income yields constants.UndefinedRatio and a non-affordable verdict.
func (c *Calculator) Evaluate(app Application) (AffordabilityResult, error) {
	principal := app.Price - app.DownPayment
	if principal < 0 {
		return AffordabilityResult{}, fmt.Errorf("down payment %.2f exceeds price %.2f: %w",
			app.DownPayment, app.Price, loans.ErrNegativePrincipal)
	}

	payment, err := loans.AmortizedPayment(principal, app.AnnualRate, app.TermYears)
	if err != nil {
		return AffordabilityResult{}, fmt.Errorf("new loan: %w", err)
	}

	obligations, err := c.Obligations(app.ExistingLoans)
	if err != nil {
		return AffordabilityResult{}, err
	}

	result := AffordabilityResult{
		Principal:                   principal,
		MonthlyPaymentExclInsurance: payment,
		MonthlyInsurance:            loans.InsuranceEstimate(principal, c.policy.InsuranceRate),
		ExistingObligationsTotal:    sumObligations(obligations),
		Obligations:                 obligations,
	}
	result.TotalMonthlyPayment = result.MonthlyPaymentExclInsurance + result.MonthlyInsurance + result.ExistingObligationsTotal

	if app.MonthlyIncome > 0 {
		result.DebtToIncomeRatio = result.TotalMonthlyPayment / app.MonthlyIncome
	} else {
		result.DebtToIncomeRatio = constants.UndefinedRatio
	}
	result.IsAffordable = app.MonthlyIncome > 0 && result.DebtToIncomeRatio <= c.policy.DebtToIncomeCeiling

	c.logger.Debug(fmt.Sprintf("evaluated principal %.2f: total monthly %.2f, ratio %.4f, affordable %t",
		principal, result.TotalMonthlyPayment, result.DebtToIncomeRatio, result.IsAffordable),
		zap.String("op", "affordability.Evaluate"),
	)

	return result, nil
}

// Capacity prices the existing loans of an Application and returns its
// maximum borrowable amount at the application's rate and term.
func (c *Calculator) Capacity(app Application) (MaxBorrowResult, error) {
	obligations, err := c.ExistingObligationsTotal(app.ExistingLoans)
	if err != nil {
		return MaxBorrowResult{}, err
	}
	return c.MaxBorrowable(app.MonthlyIncome, app.AnnualRate, app.TermYears, app.DownPayment, obligations)
}

// EvaluateAffordability runs Evaluate with DefaultPolicy.
func EvaluateAffordability(price, downPayment, annualRate float64, termYears int, monthlyIncome float64, existingLoans []LoanTerms) (AffordabilityResult, error) {
	calculator, err := NewCalculator(nil, DefaultPolicy())
	if err != nil {
		return AffordabilityResult{}, err
	}
	existing := make([]ExistingLoan, len(existingLoans))
	for i, terms := range existingLoans {
		existing[i] = ExistingLoan{Terms: terms}
	}
	return calculator.Evaluate(Application{
		Price:         price,
		DownPayment:   downPayment,
		AnnualRate:    annualRate,
		TermYears:     termYears,
		MonthlyIncome: monthlyIncome,
		ExistingLoans: existing,
	})
}
