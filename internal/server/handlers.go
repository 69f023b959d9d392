package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-affordability/internal/assessment"
	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/iwvelando/loan-affordability/pkg/mathutil"
	"github.com/iwvelando/loan-affordability/pkg/metrics"
	"github.com/iwvelando/loan-affordability/pkg/output"
	"github.com/iwvelando/loan-affordability/pkg/validation"
	"go.uber.org/zap"
)

// Rates in request bodies are annual percentages, as in scenario files.

type paymentRequest struct {
	Principal     float64  `json:"principal" validate:"gte=0"`
	InterestRate  float64  `json:"interestRate" validate:"gte=0"`
	TermYears     int      `json:"termYears" validate:"gt=0"`
	InsuranceRate *float64 `json:"insuranceRate,omitempty" validate:"omitempty,gte=0"`
	Schedule      bool     `json:"schedule,omitempty"`
}

type paymentResponse struct {
	MonthlyPayment      float64         `json:"monthlyPayment"`
	MonthlyInsurance    float64         `json:"monthlyInsurance"`
	TotalMonthlyPayment float64         `json:"totalMonthlyPayment"`
	TotalInterest       float64         `json:"totalInterest,omitempty"`
	Schedule            []loans.Payment `json:"schedule,omitempty"`
}

type maxBorrowableRequest struct {
	MonthlyIncome       float64              `json:"monthlyIncome" validate:"gte=0"`
	InterestRate        float64              `json:"interestRate" validate:"gte=0"`
	TermYears           int                  `json:"termYears" validate:"gt=0"`
	DownPayment         float64              `json:"downPayment" validate:"gte=0"`
	ExistingObligations float64              `json:"existingObligations" validate:"gte=0"`
	ExistingLoans       []config.Loan        `json:"existingLoans,omitempty" validate:"dive"`
	Policy              *config.PolicyConfig `json:"policy,omitempty"`
}

type maxBorrowableResponse struct {
	affordability.MaxBorrowResult
	ExistingObligationsTotal float64 `json:"existingObligationsTotal"`
}

type evaluateRequest struct {
	Price         float64              `json:"price" validate:"gte=0"`
	DownPayment   float64              `json:"downPayment" validate:"gte=0"`
	InterestRate  float64              `json:"interestRate" validate:"gte=0"`
	TermYears     int                  `json:"termYears" validate:"gt=0"`
	MonthlyIncome float64              `json:"monthlyIncome" validate:"gte=0"`
	ExistingLoans []config.Loan        `json:"existingLoans,omitempty" validate:"dive"`
	Policy        *config.PolicyConfig `json:"policy,omitempty"`
}

type assessmentResponse struct {
	Scenarios []assessment.Assessment `json:"scenarios"`
	CSV       string                  `json:"csv"`
	Warnings  []string                `json:"warnings,omitempty"`
	Duration  string                  `json:"duration"`
}

func (h *handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePayment"

	var req paymentRequest
	if !h.decodeAndValidate(w, r, &req, op) {
		return
	}

	insuranceRate := h.policy.ToPolicy().InsuranceRate
	if req.InsuranceRate != nil {
		insuranceRate = mathutil.PercentToFraction(*req.InsuranceRate)
	}
	terms := loans.Terms{
		Principal:  req.Principal,
		AnnualRate: mathutil.PercentToFraction(req.InterestRate),
		TermYears:  req.TermYears,
	}

	payment, err := loans.AmortizedPayment(terms.Principal, terms.AnnualRate, terms.TermYears)
	metrics.ObserveComputation(metrics.OperationPayment, err)
	if err != nil {
		h.respondComputationError(w, r, err, op)
		return
	}

	resp := paymentResponse{
		MonthlyPayment:   payment,
		MonthlyInsurance: loans.InsuranceEstimate(terms.Principal, insuranceRate),
	}
	resp.TotalMonthlyPayment = resp.MonthlyPayment + resp.MonthlyInsurance

	if req.Schedule {
		schedule, err := loans.NewAmortizationScheduleGenerator(requestLogger(r, h.logger)).GenerateSchedule(terms, insuranceRate)
		if err != nil {
			h.respondComputationError(w, r, err, op)
			return
		}
		resp.Schedule = schedule
		resp.TotalInterest = loans.TotalInterest(schedule)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleMaxBorrowable(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMaxBorrowable"

	var req maxBorrowableRequest
	if !h.decodeAndValidate(w, r, &req, op) {
		return
	}

	calculator, ok := h.calculator(w, r, req.Policy, op)
	if !ok {
		return
	}

	obligations, err := calculator.ExistingObligationsTotal(existingLoans(req.ExistingLoans))
	if err != nil {
		metrics.ObserveComputation(metrics.OperationMaxBorrowable, err)
		h.respondComputationError(w, r, err, op)
		return
	}
	obligations += req.ExistingObligations

	result, err := calculator.MaxBorrowable(req.MonthlyIncome, mathutil.PercentToFraction(req.InterestRate),
		req.TermYears, req.DownPayment, obligations)
	metrics.ObserveComputation(metrics.OperationMaxBorrowable, err)
	if err != nil {
		h.respondComputationError(w, r, err, op)
		return
	}
	metrics.ObserveSearch(result.Iterations, result.Converged, result.Saturated)

	h.writeJSON(w, http.StatusOK, maxBorrowableResponse{MaxBorrowResult: result, ExistingObligationsTotal: obligations})
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"

	var req evaluateRequest
	if !h.decodeAndValidate(w, r, &req, op) {
		return
	}

	calculator, ok := h.calculator(w, r, req.Policy, op)
	if !ok {
		return
	}

	result, err := calculator.Evaluate(affordability.Application{
		Price:         req.Price,
		DownPayment:   req.DownPayment,
		AnnualRate:    mathutil.PercentToFraction(req.InterestRate),
		TermYears:     req.TermYears,
		MonthlyIncome: req.MonthlyIncome,
		ExistingLoans: existingLoans(req.ExistingLoans),
	})
	metrics.ObserveComputation(metrics.OperationEvaluate, err)
	if err != nil {
		h.respondComputationError(w, r, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAssessment"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if isBodyTooLarge(err) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file", zap.String("op", op), zap.Error(closeErr))
		}
	}()

	conf, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	schedule, _ := strconv.ParseBool(r.URL.Query().Get("schedule"))
	results, err := assessment.GetAssessments(requestLogger(r, h.logger), *conf, assessment.Options{Schedule: schedule})
	if err != nil {
		h.respondComputationError(w, r, err, op)
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	if results == nil {
		results = []assessment.Assessment{}
	}
	h.writeJSON(w, http.StatusOK, assessmentResponse{
		Scenarios: results,
		CSV:       csvData,
		Warnings:  conf.ValidateConfiguration(),
		Duration:  time.Since(start).String(),
	})
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func (h *handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		switch {
		case isBodyTooLarge(err):
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return false
	}

	if err := validation.Default().Struct(dst); err != nil {
		h.respondFields(w, r, http.StatusBadRequest, "invalid request", validation.FormatValidationError(err), op)
		return false
	}
	return true
}

func (h *handler) calculator(w http.ResponseWriter, r *http.Request, override *config.PolicyConfig, op string) (*affordability.Calculator, bool) {
	policyConfig := h.policy
	if override != nil {
		policyConfig = *override
	}

	calculator, err := affordability.NewCalculator(requestLogger(r, h.logger), policyConfig.ToPolicy())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return calculator, true
}

// respondComputationError maps core errors to 422, policy errors to 400 and
// anything else to 500.
func (h *handler) respondComputationError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, loans.ErrInvalidTerm),
		errors.Is(err, loans.ErrNegativeRate),
		errors.Is(err, loans.ErrNegativePrincipal),
		errors.Is(err, affordability.ErrUnboundedSearch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, affordability.ErrInvalidPolicy):
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, r, status, err.Error(), op)
}

// isBodyTooLarge reports whether err came from an http.MaxBytesReader. The
// multipart reader does not always wrap it, hence the message check.
func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func existingLoans(in []config.Loan) []affordability.ExistingLoan {
	out := make([]affordability.ExistingLoan, 0, len(in))
	for i := range in {
		out = append(out, in[i].ToExistingLoan())
	}
	return out
}
