package catalog

import (
	"time"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
)

// Snapshot is the full set of records at one point in time, keyed by stable identifier.
type Snapshot struct {
	generation int64
	loadedAt   time.Time
	records    map[string]*Record
	order      []string
}

// NewSnapshot builds a snapshot. Identifiers must be non-empty and unique so that every
// job identifier resolves to at most one live record.
func NewSnapshot(generation int64, records []*Record) (*Snapshot, error) {
	s := &Snapshot{
		generation: generation,
		loadedAt:   time.Now(),
		records:    make(map[string]*Record, len(records)),
		order:      make([]string, 0, len(records)),
	}
	for i, r := range records {
		if r == nil || r.ID == "" {
			return nil, ferrors.NewError(ferrors.CategoryCatalog, "record without identifier").
				WithContext("index", i).
				Build()
		}
		if _, dup := s.records[r.ID]; dup {
			return nil, ferrors.NewError(ferrors.CategoryCatalog, "duplicate record identifier").
				WithContext("record_id", r.ID).
				Build()
		}
		s.records[r.ID] = r
		s.order = append(s.order, r.ID)
	}
	return s, nil
}

// Generation is the change counter the snapshot was loaded at.
func (s *Snapshot) Generation() int64 { return s.generation }

// LoadedAt reports when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Lookup resolves a stable identifier.
func (s *Snapshot) Lookup(id string) (*Record, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.records[id]
	return r, ok
}

// Records returns records in catalog order.
func (s *Snapshot) Records() []*Record {
	if s == nil {
		return nil
	}
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Teardown empties the augmentation slot of every record.
func (s *Snapshot) Teardown() {
	if s == nil {
		return
	}
	for _, r := range s.records {
		r.Teardown()
	}
}
