package frequency

import (
	"reflect"
	"testing"
)

func TestLookupTable(t *testing.T) {
	tests := []struct {
		frequency      Frequency
		termLengths    []int
		periodsPerYear float64
		label          string
	}{
		{Weekly, []int{12, 16, 24, 32, 36, 52}, 52, "weeks"},
		{Biweekly, []int{6, 8, 12, 16, 18, 24}, 24, "biweeks"},
		{Fortnightly, []int{6, 8, 12, 16, 18, 24}, 26, "fortnights"},
		{Decenal, []int{9, 12, 18, 24, 27, 36}, 36.5, "decenes"},
		{Monthly, []int{3, 4, 6, 8, 9, 12}, 12, "months"},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			if got := AllowedTermLengths(tt.frequency); !reflect.DeepEqual(got, tt.termLengths) {
				t.Errorf("AllowedTermLengths(%s) = %v, expected %v", tt.frequency, got, tt.termLengths)
			}
			if got := PeriodsPerYear(tt.frequency); got != tt.periodsPerYear {
				t.Errorf("PeriodsPerYear(%s) = %v, expected %v", tt.frequency, got, tt.periodsPerYear)
			}
			if got := PeriodLabel(tt.frequency); got != tt.label {
				t.Errorf("PeriodLabel(%s) = %q, expected %q", tt.frequency, got, tt.label)
			}
		})
	}
}

func TestUnknownFrequencyFallsBackToMonthly(t *testing.T) {
	unknown := Frequency("unknown")
	if !reflect.DeepEqual(Lookup(unknown), Lookup(Monthly)) {
		t.Errorf("Lookup(unknown) = %+v, expected monthly policy", Lookup(unknown))
	}
	if unknown.IsKnown() {
		t.Error("expected unknown frequency not to be known")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	terms := AllowedTermLengths(Monthly)
	terms[0] = 999
	if AllowedTermLengths(Monthly)[0] != 3 {
		t.Fatal("mutating a returned term slice changed the policy table")
	}
}

func TestResolve(t *testing.T) {
	tests := map[string]Frequency{
		"weekly":          Weekly,
		"  BiWeekly ":     Biweekly,
		"FORTNIGHTLY":     Fortnightly,
		"decenal":         Decenal,
		"monthly":         Monthly,
		"":                Monthly,
		"unknown":         Monthly,
		"every-full-moon": Monthly,
	}

	for input, expected := range tests {
		if got := Resolve(input); got != expected {
			t.Errorf("Resolve(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" Decenal")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != Decenal {
		t.Fatalf("Parse() = %q, expected %q", got, Decenal)
	}

	if _, err := Parse("yearly"); err == nil {
		t.Fatal("expected error for unsupported frequency")
	}
}

func TestAllowsTerm(t *testing.T) {
	if !AllowsTerm(Weekly, 52) {
		t.Error("expected weekly to allow 52 periods")
	}
	if AllowsTerm(Monthly, 52) {
		t.Error("expected monthly not to allow 52 periods")
	}
}

func TestAllOrder(t *testing.T) {
	expected := []Frequency{Weekly, Biweekly, Fortnightly, Decenal, Monthly}
	if got := All(); !reflect.DeepEqual(got, expected) {
		t.Errorf("All() = %v, expected %v", got, expected)
	}
}
