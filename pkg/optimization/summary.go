// Package optimization provides shared data structures for iterative solver results.
package optimization

import "fmt"

// Summary captures how an iterative solver finished.
type Summary struct {
	Solver     string   `json:"solver"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

// Note appends a formatted note to the summary.
func (s *Summary) Note(format string, args ...interface{}) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}
