// Package output provides utilities for formatting and displaying assessment results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-affordability/internal/assessment"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"github.com/iwvelando/loan-affordability/pkg/format"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader lists the columns written by CsvFormat.
var CsvHeader = []string{
	"scenario",
	"principal",
	"monthly payment",
	"monthly insurance",
	"existing obligations",
	"total monthly payment",
	"debt-to-income ratio",
	"affordable",
	"max principal",
	"max property price",
	"search iterations",
	"converged",
	"saturated",
	"notes",
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []assessment.Assessment) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyAssessment(w, p, result); err != nil {
			return err
		}
	}
	return nil
}

func prettyAssessment(w io.Writer, p *message.Printer, result assessment.Assessment) error {
	a := result.Affordability
	c := result.Capacity

	rows := [][2]string{
		{"Principal", amount(p, a.Principal)},
		{"Monthly payment", amount(p, a.MonthlyPaymentExclInsurance)},
		{"Monthly insurance", amount(p, a.MonthlyInsurance)},
		{"Existing obligations", amount(p, a.ExistingObligationsTotal)},
		{"Total monthly payment", amount(p, a.TotalMonthlyPayment)},
		{"Debt-to-income ratio", format.Percent(a.DebtToIncomeRatio, 1)},
		{"Affordable", yesNo(a.IsAffordable)},
		{"Payment ceiling", amount(p, c.PaymentCeiling)},
		{"Maximum principal", p.Sprintf("%.0f", c.MaxPrincipal)},
		{"Maximum property price", p.Sprintf("%.0f", c.MaxPropertyPrice)},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Results for scenario %s ---\n", result.Name)
	fmt.Fprintf(&b, "%-24s | %s\n", "Item", "Value")
	fmt.Fprintf(&b, "%-24s | %s\n", "____", "_____")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-24s | %s\n", row[0], row[1])
	}

	if len(a.Obligations) > 0 {
		b.WriteString("Existing loans:\n")
		for _, o := range a.Obligations {
			b.WriteString(p.Sprintf("  %s (%s): %.2f + %.2f insurance\n",
				o.Name, category(o.Category), format.Cents(o.MonthlyPayment), format.Cents(o.MonthlyInsurance)))
		}
	}
	for _, note := range result.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(result.Schedule) > 0 {
		if err := PrettySchedule(w, result.Schedule); err != nil {
			return err
		}
	}
	for _, loan := range result.LoanSchedules {
		if _, err := fmt.Fprintf(w, "Existing loan %s:\n", loan.Name); err != nil {
			return err
		}
		if err := PrettySchedule(w, loan.Schedule); err != nil {
			return err
		}
	}
	return nil
}

// LoanScheduleLabel names an existing loan's schedule in CSV output.
func LoanScheduleLabel(scenario, loan string) string {
	return scenario + "/" + loan
}

// PrettySchedule writes an amortization schedule as an aligned table.
func PrettySchedule(w io.Writer, schedule []loans.Payment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%5s | %12s | %12s | %12s | %10s | %14s\n", "Month", "Payment", "Principal", "Interest", "Insurance", "Remaining")
	fmt.Fprintf(&b, "%5s | %12s | %12s | %12s | %10s | %14s\n", "_____", "_______", "_________", "________", "_________", "_________")
	for _, row := range schedule {
		fmt.Fprintf(&b, "%5d | %12s | %12s | %12s | %10s | %14s\n", row.Month,
			format.Amount(row.Payment), format.Amount(row.Principal), format.Amount(row.Interest),
			format.Amount(row.Insurance), format.Amount(row.RemainingPrincipal))
	}
	fmt.Fprintf(&b, "Total interest %s, total paid %s\n",
		format.Amount(loans.TotalInterest(schedule)), format.Amount(loans.TotalPaid(schedule)))
	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat writes one row per assessment in comma-separated value format.
func CsvFormat(w io.Writer, results []assessment.Assessment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write(csvRow(result)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString renders CsvFormat into a string.
func CsvString(results []assessment.Assessment) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ScheduleCsvFormat writes an amortization schedule in comma-separated value format.
func ScheduleCsvFormat(w io.Writer, scenario string, schedule []loans.Payment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"scenario", "month", "payment", "principal", "interest", "insurance", "remaining principal"}); err != nil {
		return err
	}
	for _, row := range schedule {
		record := []string{
			scenario,
			strconv.Itoa(row.Month),
			cents(row.Payment),
			cents(row.Principal),
			cents(row.Interest),
			cents(row.Insurance),
			cents(row.RemainingPrincipal),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvRow(result assessment.Assessment) []string {
	a := result.Affordability
	c := result.Capacity
	return []string{
		result.Name,
		cents(a.Principal),
		cents(a.MonthlyPaymentExclInsurance),
		cents(a.MonthlyInsurance),
		cents(a.ExistingObligationsTotal),
		cents(a.TotalMonthlyPayment),
		strconv.FormatFloat(a.DebtToIncomeRatio, 'f', 4, 64),
		strconv.FormatBool(a.IsAffordable),
		strconv.FormatFloat(c.MaxPrincipal, 'f', 0, 64),
		strconv.FormatFloat(c.MaxPropertyPrice, 'f', 0, 64),
		strconv.Itoa(c.Iterations),
		strconv.FormatBool(c.Converged),
		strconv.FormatBool(c.Saturated),
		strings.Join(result.Notes, "; "),
	}
}

func amount(p *message.Printer, value float64) string {
	return p.Sprintf("%.2f", format.Cents(value))
}

func cents(value float64) string {
	return strconv.FormatFloat(format.Cents(value), 'f', 2, 64)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func category(c affordability.Category) string {
	if c == "" {
		return string(affordability.CategoryConsumer)
	}
	return string(c)
}
