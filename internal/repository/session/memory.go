package session

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// Record is everything kept for one session.
type Record struct {
	// ID is the session identifier handed to the renderer.
	ID string
	// State is the thermostat state of the session.
	State domain.State
	// Mode is the name of the mode machine state after the last transition.
	Mode domain.Mode
	// CreatedAt is when the session was opened.
	CreatedAt time.Time
	// LastSeen is when the session was last read or changed.
	LastSeen time.Time
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r

	return &cloned
}

// Repository defines persistence operations for session records.
type Repository interface {
	Load(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id string) error
	// DeleteIdle removes records last seen before cutoff and returns their ids.
	DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
}

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("session not found")
	// errRecordIDRequired is returned when saving a record without an id.
	errRecordIDRequired = errors.New("record id is required")
)

// MemoryRepository keeps session records in a map.
type MemoryRepository struct {
	// records maps session id to its record.
	records map[string]*Record
	// mu protects records.
	mu sync.RWMutex
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*Record),
	}
}

// Load returns a copy of the record stored under id.
func (r *MemoryRepository) Load(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	return record.Clone(), nil
}

// Save stores a copy of record, replacing any previous one with the same id.
func (r *MemoryRepository) Save(_ context.Context, record *Record) error {
	if record == nil || record.ID == "" {
		return errRecordIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = record.Clone()

	return nil
}

// Delete removes the record stored under id.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}

	delete(r.records, id)

	return nil
}

// DeleteIdle removes every record whose LastSeen is before cutoff.
func (r *MemoryRepository) DeleteIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string

	for id, record := range r.records {
		if record.LastSeen.Before(cutoff) {
			delete(r.records, id)

			removed = append(removed, id)
		}
	}

	return removed, nil
}

// Count returns the number of stored records.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records), nil
}
