// Package output provides utilities for formatting and displaying quoted plans and ledgers.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/format"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Plans writes plans in the requested output format.
func Plans(w io.Writer, outputFormat string, plans []loans.PaymentPlan) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyPlans(w, plans)
	case constants.OutputFormatCSV:
		return CsvPlans(w, plans)
	case constants.OutputFormatJSON:
		return JSON(w, plans)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// Schedule writes an amortization ledger in the requested output format.
func Schedule(w io.Writer, outputFormat string, schedule []loans.Payment) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettySchedule(w, schedule)
	case constants.OutputFormatCSV:
		return CsvSchedule(w, schedule)
	case constants.OutputFormatJSON:
		return JSON(w, schedule)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyPlans outputs a human-readable rather than machine-readable table.
func PrettyPlans(w io.Writer, plans []loans.PaymentPlan) error {
	p := message.NewPrinter(language.English)
	if len(plans) == 0 {
		_, err := fmt.Fprintln(w, "No plans available")
		return err
	}

	if _, err := fmt.Fprintf(w, "--- Payment plans (%s, %s annual) ---\n",
		plans[0].PaymentFrequency, format.Percent(plans[0].InterestRate)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Term          | Payment       | Total         | Interest      | IVA         | CAT\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "____          | _______       | _____         | ________      | ___         | ___\n"); err != nil {
		return err
	}
	for _, plan := range plans {
		if _, err := p.Fprintf(w, "%-13s | $%-12.2f | $%-12.2f | $%-12.2f | $%-10.2f | %s\n",
			format.Term(plan.Periods, plan.PeriodLabel),
			plan.PaymentPerPeriod,
			plan.TotalPayment,
			plan.TotalInterest,
			plan.TotalIVA,
			format.Percent(plan.CAT),
		); err != nil {
			return err
		}
	}
	return nil
}

// PrettySchedule outputs one ledger row per period.
func PrettySchedule(w io.Writer, schedule []loans.Payment) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "Period | Payment       | Interest      | IVA         | Principal     | Balance\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "______ | _______       | ________      | ___         | _________     | _______\n"); err != nil {
		return err
	}
	var paid, interest, iva float64
	for _, row := range schedule {
		if _, err := p.Fprintf(w, "%-6d | $%-12.2f | $%-12.2f | $%-10.2f | $%-12.2f | $%.2f\n",
			row.Period, row.Payment, row.Interest, row.IVA, row.Principal, row.RemainingBalance); err != nil {
			return err
		}
		paid += row.Payment
		interest += row.Interest
		iva += row.IVA
	}
	if len(schedule) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Total paid: %s | Interest: %s | IVA: %s\n",
		format.Currency(paid), format.Currency(interest), format.Currency(iva)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Final balance: %s\n", format.NumericCurrency(schedule[len(schedule)-1].RemainingBalance))
	return err
}

// CsvPlans outputs plans in comma-separated value format.
func CsvPlans(w io.Writer, plans []loans.PaymentPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"periods", "periodLabel", "paymentPerPeriod", "totalPayment",
		"totalInterest", "totalIVA", "interestRate", "paymentFrequency", "cat"}); err != nil {
		return err
	}
	for _, plan := range plans {
		if err := cw.Write([]string{
			strconv.Itoa(plan.Periods),
			plan.PeriodLabel,
			amount(plan.PaymentPerPeriod),
			amount(plan.TotalPayment),
			amount(plan.TotalInterest),
			amount(plan.TotalIVA),
			amount(plan.InterestRate),
			string(plan.PaymentFrequency),
			amount(plan.CAT),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvSchedule outputs a ledger in comma-separated value format.
func CsvSchedule(w io.Writer, schedule []loans.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "payment", "interest", "iva", "principal", "remainingBalance"}); err != nil {
		return err
	}
	for _, row := range schedule {
		if err := cw.Write([]string{
			strconv.Itoa(row.Period),
			amount(row.Payment),
			amount(row.Interest),
			amount(row.IVA),
			amount(row.Principal),
			amount(row.RemainingBalance),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON outputs any value as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}
