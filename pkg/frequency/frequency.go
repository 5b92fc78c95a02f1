// Package frequency maps a payment frequency to its term lengths, its
// number of periods per year, and its display label.
package frequency

import (
	"fmt"
	"strings"
)

// Frequency identifies how often an installment is due.
type Frequency string

const (
	Weekly      Frequency = "weekly"
	Biweekly    Frequency = "biweekly"
	Fortnightly Frequency = "fortnightly"
	Decenal     Frequency = "decenal"
	Monthly     Frequency = "monthly"
)

// Default is used for any frequency not present in the policy table.
const Default = Monthly

// Policy describes the plans offered for one frequency.
type Policy struct {
	Frequency      Frequency
	TermLengths    []int
	PeriodsPerYear float64
	Label          string
}

// Biweekly converts rates with 24 periods a year (twice monthly) while
// fortnightly uses 26; both offer the same term lengths. A decenal period
// is ten calendar days, hence 36.5 periods a year.
var policies = map[Frequency]Policy{
	Weekly:      {Frequency: Weekly, TermLengths: []int{12, 16, 24, 32, 36, 52}, PeriodsPerYear: 52, Label: "weeks"},
	Biweekly:    {Frequency: Biweekly, TermLengths: []int{6, 8, 12, 16, 18, 24}, PeriodsPerYear: 24, Label: "biweeks"},
	Fortnightly: {Frequency: Fortnightly, TermLengths: []int{6, 8, 12, 16, 18, 24}, PeriodsPerYear: 26, Label: "fortnights"},
	Decenal:     {Frequency: Decenal, TermLengths: []int{9, 12, 18, 24, 27, 36}, PeriodsPerYear: 36.5, Label: "decenes"},
	Monthly:     {Frequency: Monthly, TermLengths: []int{3, 4, 6, 8, 9, 12}, PeriodsPerYear: 12, Label: "months"},
}

var order = []Frequency{Weekly, Biweekly, Fortnightly, Decenal, Monthly}

// All returns every known frequency in table order.
func All() []Frequency {
	return append([]Frequency(nil), order...)
}

// IsKnown reports whether f has its own entry in the policy table.
func (f Frequency) IsKnown() bool {
	_, ok := policies[f]
	return ok
}

// String implements fmt.Stringer.
func (f Frequency) String() string {
	return string(f)
}

// Lookup returns the policy for f. Unknown frequencies get the monthly
// policy; callers needing strict validation should use Parse first. The
// returned term lengths are a copy, so the table stays read-only.
func Lookup(f Frequency) Policy {
	p, ok := policies[f]
	if !ok {
		p = policies[Default]
	}
	p.TermLengths = append([]int(nil), p.TermLengths...)
	return p
}

// AllowedTermLengths returns the term lengths offered for f, shortest first.
func AllowedTermLengths(f Frequency) []int {
	return Lookup(f).TermLengths
}

// PeriodsPerYear returns the number of periods per year used for rate conversion.
func PeriodsPerYear(f Frequency) float64 {
	return Lookup(f).PeriodsPerYear
}

// PeriodLabel returns the display label for f.
func PeriodLabel(f Frequency) string {
	return Lookup(f).Label
}

// Resolve normalizes a raw frequency value. Anything unrecognized,
// including the empty string, resolves to Default rather than an error.
func Resolve(raw string) Frequency {
	f := normalize(raw)
	if !f.IsKnown() {
		return Default
	}
	return f
}

// Parse is the strict counterpart of Resolve.
func Parse(raw string) (Frequency, error) {
	f := normalize(raw)
	if !f.IsKnown() {
		return "", fmt.Errorf("unsupported payment frequency %q", raw)
	}
	return f, nil
}

// AllowsTerm reports whether periods is one of the term lengths offered for f.
func AllowsTerm(f Frequency, periods int) bool {
	for _, n := range Lookup(f).TermLengths {
		if n == periods {
			return true
		}
	}
	return false
}

func normalize(raw string) Frequency {
	return Frequency(strings.ToLower(strings.TrimSpace(raw)))
}
