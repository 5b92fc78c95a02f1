package company

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps companies in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	companies map[string]Company
}

// NewMemoryStore creates a store seeded with companies. Later records
// replace earlier ones with the same ID; records without an ID are skipped.
func NewMemoryStore(companies ...Company) *MemoryStore {
	s := &MemoryStore{companies: make(map[string]Company, len(companies))}
	for _, c := range companies {
		s.Put(c)
	}
	return s
}

// Get returns the company stored under id.
func (s *MemoryStore) Get(_ context.Context, id string) (Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return Company{}, &ErrNotFound{ID: id}
	}
	return c, nil
}

// Put adds or replaces a company.
func (s *MemoryStore) Put(c Company) {
	if c.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

// Len returns the number of stored companies.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companies)
}

type seedFile struct {
	Companies []Company `yaml:"companies"`
}

// LoadSeedFile reads companies from a YAML file with a top-level
// "companies" list. A missing file yields no companies and no error.
func LoadSeedFile(path string) ([]Company, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read companies file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse companies file: %w", err)
	}
	return seed.Companies, nil
}
