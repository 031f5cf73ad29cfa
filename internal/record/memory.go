package record

import (
	"context"
	"sync"
	"time"

	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/types"
)

// MemoryStore keeps call records in memory for tests that need a Store
// without a database file.
type MemoryStore struct {
	mu      sync.Mutex
	records []CallRecord

	// AppendErr, when set, is returned by every Append call.
	AppendErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, rec *CallRecord) (types.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return "", s.AppendErr
	}

	if rec.ID.IsZero() {
		rec.ID = types.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.InjectionRisk == "" {
		rec.InjectionRisk = sanitize.RiskNone
	}

	stored := *rec
	if rec.ParsedArguments != nil {
		stored.ParsedArguments = make(map[string]any, len(rec.ParsedArguments))
		for k, v := range rec.ParsedArguments {
			stored.ParsedArguments[k] = v
		}
	} else {
		stored.ParsedArguments = map[string]any{}
	}
	s.records = append(s.records, stored)
	return stored.ID, nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	n := len(s.records)
	if limit > n {
		limit = n
	}

	out := make([]CallRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len reports how many records have been appended.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
