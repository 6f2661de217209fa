package record

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goliatone/go-combinedform/pkg/entity"
)

// Store keeps committed records in memory, grouped by entity type. Identities
// are monotonic ULIDs so insertion order is recoverable from the IDs alone.
type Store struct {
	mu      sync.RWMutex
	data    map[entity.Type]map[string]*Record
	entropy io.Reader
}

// NewStore returns an empty store ready for use.
func NewStore() *Store {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store{
		data:    make(map[entity.Type]map[string]*Record),
		entropy: ulid.Monotonic(src, 0),
	}
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Save writes the record, assigning a fresh ULID on first commit and bumping
// the version on every write.
func (s *Store) Save(ctx context.Context, record *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record: cannot save nil record")
	}
	if record.entity == "" {
		return fmt.Errorf("record: cannot save record without an entity type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if record.id == "" {
		record.id = s.newID()
		record.createdAt = now
	}
	record.updatedAt = now
	record.version++

	rows := s.data[record.entity]
	if rows == nil {
		rows = make(map[string]*Record)
		s.data[record.entity] = rows
	}
	rows[record.id] = record
	return nil
}

// Get returns the committed record with the given identity.
func (s *Store) Get(typ entity.Type, id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[typ]
	if rows == nil {
		return nil, false
	}
	record, ok := rows[id]
	return record, ok
}

// Exists reports whether a record with the given identity is committed.
func (s *Store) Exists(typ entity.Type, id string) bool {
	_, ok := s.Get(typ, id)
	return ok
}

// Count returns the number of committed records for an entity type.
func (s *Store) Count(typ entity.Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data[typ])
}
