// Package memory provides an in-memory expense sink, used by tests and as a
// dry-run backend.
package memory

import (
	"context"
	"sync"

	"github.com/gsantin/spesebot/internal/expense"
)

type Store struct {
	mu     sync.Mutex
	rows   map[string][]expense.Record
	sheets map[string]bool
}

func New() *Store {
	return &Store{
		rows:   make(map[string][]expense.Record),
		sheets: make(map[string]bool),
	}
}

func (s *Store) Append(_ context.Context, month string, rec expense.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[month] = append(s.rows[month], rec)
	return nil
}

func (s *Store) EnsureWorksheet(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[month] = true
	return nil
}

// Rows returns a copy of the rows appended to the given month partition.
func (s *Store) Rows(month string) []expense.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]expense.Record(nil), s.rows[month]...)
}

// Ensured reports whether EnsureWorksheet was called for the month.
func (s *Store) Ensured(month string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheets[month]
}
