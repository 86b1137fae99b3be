package state

import (
	"path/filepath"
	"sync"
	"time"
)

// LocationFileName is the document in the state directory naming the official repository.
const LocationFileName = "location.json"

type locationDoc struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationStore remembers which directory is the authoritative repository.
type LocationStore struct {
	mu       sync.Mutex
	path     string
	fallback string
}

// NewLocationStore returns a store persisted under stateDir. fallback is reported
// until a location has been stored.
func NewLocationStore(stateDir, fallback string) *LocationStore {
	return &LocationStore{path: filepath.Join(stateDir, LocationFileName), fallback: fallback}
}

// Load returns the stored location, or the fallback when none was stored yet.
func (s *LocationStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc locationDoc
	found, err := ReadJSON(s.path, &doc)
	if err != nil {
		return "", err
	}
	if !found || doc.Path == "" {
		return s.fallback, nil
	}
	return doc.Path, nil
}

// Store records a new authoritative location.
func (s *LocationStore) Store(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteJSON(s.path, locationDoc{Path: path, UpdatedAt: time.Now().UTC()})
}
