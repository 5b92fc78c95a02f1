package loans

import (
	"math"
	"reflect"
	"testing"
)

func TestCashFlows(t *testing.T) {
	flows := CashFlows(1000, 350, 3)
	expected := []float64{-1000, 350, 350, 350}
	if !reflect.DeepEqual(flows, expected) {
		t.Errorf("CashFlows() = %v, expected %v", flows, expected)
	}

	if flows := CashFlows(1000, 350, -1); !reflect.DeepEqual(flows, []float64{-1000}) {
		t.Errorf("negative term should only carry the principal, got %v", flows)
	}
}

func TestNetPresentValue(t *testing.T) {
	npv, derivative := NetPresentValue([]float64{-100, 110}, 0.10)
	if math.Abs(npv) > 1e-9 {
		t.Errorf("expected zero NPV at the true rate, got %v", npv)
	}
	// d/dr of 110/(1+r) at r=0.1 is -110/1.21
	if math.Abs(derivative-(-110/1.21)) > 1e-9 {
		t.Errorf("unexpected derivative %v", derivative)
	}
}

func TestSolveIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		expected float64
	}{
		{"Single period ten percent", []float64{-100, 110}, 0.10},
		{"Zero rate", CashFlows(12000, 1000, 12), 0},
		{"Quoted monthly plan", CashFlows(10000, 1033.62, 12), 0.0347997},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SolveIRR(tt.flows, 0.1)
			if !result.Summary.Converged {
				t.Fatalf("expected convergence, got %+v", result.Summary)
			}
			if math.Abs(result.Rate-tt.expected) > 1e-6 {
				t.Errorf("SolveIRR() = %.8f, expected %.8f", result.Rate, tt.expected)
			}
			if result.Summary.Iterations > 100 {
				t.Errorf("iteration cap exceeded: %d", result.Summary.Iterations)
			}
		})
	}
}

func TestSolveIRRWithoutRoot(t *testing.T) {
	// Only outflows: NPV never reaches zero, so the iteration cannot converge.
	result := SolveIRR([]float64{-100, -10, -10}, 0.1)
	if result.Summary.Converged {
		t.Fatalf("expected non-convergence, got %+v", result)
	}
	if len(result.Summary.Notes) == 0 {
		t.Error("expected a note explaining the failure")
	}
}

func TestSolveIRRFlatDerivative(t *testing.T) {
	result := SolveIRR([]float64{-100}, 0.1)
	if result.Summary.Converged {
		t.Fatal("expected non-convergence for a single flow")
	}
	if result.Rate != 0.1 {
		t.Errorf("expected the initial guess back, got %v", result.Rate)
	}
	if result.Summary.Iterations != 1 {
		t.Errorf("expected a single iteration, got %d", result.Summary.Iterations)
	}
}

func TestComputeCAT(t *testing.T) {
	tests := []struct {
		name           string
		periodicRate   float64
		periodsPerYear float64
		expected       float64
	}{
		{"Zero rate", 0, 12, 0},
		{"One percent monthly", 0.01, 12, 12.68},
		{"Quoted monthly plan", 0.03479970278223739, 12, 50.76},
		{"Decenal periods", 0.01, 36.5, 43.79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ComputeCAT(tt.periodicRate, tt.periodsPerYear); result != tt.expected {
				t.Errorf("ComputeCAT() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}
