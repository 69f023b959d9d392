package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/loan-affordability/internal/assessment"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/loans"
)

func testAssessments() []assessment.Assessment {
	return []assessment.Assessment{
		{
			Name: "flat",
			Affordability: affordability.AffordabilityResult{
				Principal:                   230000,
				MonthlyPaymentExclInsurance: 1214.0247,
				MonthlyInsurance:            76.666666,
				ExistingObligationsTotal:    95.3468,
				TotalMonthlyPayment:         1386.0382,
				DebtToIncomeRatio:           0.69302,
				IsAffordable:                false,
				Obligations: []affordability.LoanObligation{
					{Name: "car", MonthlyPayment: 92.0135, MonthlyInsurance: 3.3333},
				},
			},
			Capacity: affordability.MaxBorrowResult{
				MaxPrincipal:     117611,
				MaxPropertyPrice: 137611,
				PaymentCeiling:   660,
				Iterations:       18,
				Converged:        true,
			},
			Notes: []string{"debt-to-income ratio 69.3% exceeds the 33% ceiling"},
		},
		{
			Name: "studio",
			Affordability: affordability.AffordabilityResult{
				Principal:           100000,
				TotalMonthlyPayment: 561.17,
				DebtToIncomeRatio:   0.1122,
				IsAffordable:        true,
			},
			Capacity: affordability.MaxBorrowResult{MaxPrincipal: 290000, MaxPropertyPrice: 310000, Converged: true},
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testAssessments()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for scenario flat ---",
		"--- Results for scenario studio ---",
		"Item                     | Value",
		"Principal                | 230,000.00",
		"Monthly payment          | 1,214.02",
		"Monthly insurance        | 76.67",
		"Total monthly payment    | 1,386.04",
		"Debt-to-income ratio     | 69.3%",
		"Affordable               | no",
		"Affordable               | yes",
		"Maximum principal        | 117,611",
		"Maximum property price   | 137,611",
		"car (consumer): 92.01 + 3.33 insurance",
		"Note: debt-to-income ratio 69.3% exceeds the 33% ceiling",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
}

func TestPrettyFormatWithSchedule(t *testing.T) {
	generator := loans.NewAmortizationScheduleGenerator(nil)
	schedule, err := generator.GenerateSchedule(loans.Terms{Principal: 12000, AnnualRate: 0, TermYears: 1}, 0)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	results := []assessment.Assessment{{Name: "short", Schedule: schedule}}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, results); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Month |") {
		t.Errorf("schedule header missing:\n%s", output)
	}
	if !strings.Contains(output, "   12 |     1,000.00 |     1,000.00 |         0.00 |       0.00 |           0.00") {
		t.Errorf("final schedule row missing:\n%s", output)
	}
	if !strings.Contains(output, "Total interest 0.00, total paid 12,000.00") {
		t.Errorf("schedule totals missing:\n%s", output)
	}
}

func TestPrettyFormatWithLoanSchedules(t *testing.T) {
	generator := loans.NewAmortizationScheduleGenerator(nil)
	schedule, err := generator.GenerateSchedule(loans.Terms{Principal: 1200, AnnualRate: 0, TermYears: 1}, 0)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	results := []assessment.Assessment{{
		Name:          "short",
		LoanSchedules: []assessment.LoanSchedule{{Name: "car", Schedule: schedule}},
	}}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, results); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Existing loan car:\nMonth |") {
		t.Errorf("existing loan schedule missing:\n%s", output)
	}
	if !strings.Contains(output, "Total interest 0.00, total paid 1,200.00") {
		t.Errorf("existing loan totals missing:\n%s", output)
	}
}

func TestCsvFormat(t *testing.T) {
	out, err := CsvString(testAssessments())
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(CsvHeader, ",") {
		t.Errorf("header = %v", records[0])
	}

	flat := records[1]
	expected := []string{"flat", "230000.00", "1214.02", "76.67", "95.35", "1386.04", "0.6930", "false", "117611", "137611", "18", "true", "false",
		"debt-to-income ratio 69.3% exceeds the 33% ceiling"}
	for i, want := range expected {
		if flat[i] != want {
			t.Errorf("column %s = %q, expected %q", CsvHeader[i], flat[i], want)
		}
	}

	if records[2][0] != "studio" || records[2][7] != "true" {
		t.Errorf("studio row = %v", records[2])
	}
}

func TestScheduleCsvFormat(t *testing.T) {
	schedule := []loans.Payment{
		{Month: 1, Payment: 510, Principal: 490, Interest: 10, Insurance: 10, RemainingPrincipal: 510},
		{Month: 2, Payment: 515.005, Principal: 510, Interest: 5.005, RemainingPrincipal: 0},
	}

	var buf bytes.Buffer
	if err := ScheduleCsvFormat(&buf, "tiny", schedule); err != nil {
		t.Fatalf("ScheduleCsvFormat() error = %v", err)
	}

	expected := "scenario,month,payment,principal,interest,insurance,remaining principal\n" +
		"tiny,1,510.00,490.00,10.00,10.00,510.00\n" +
		"tiny,2,515.01,510.00,5.01,0.00,0.00\n"
	if buf.String() != expected {
		t.Errorf("ScheduleCsvFormat() = %q, expected %q", buf.String(), expected)
	}
}
