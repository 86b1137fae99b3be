package news

import (
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/state"
)

// ReadStore persists read flags keyed by item identifier.
type ReadStore interface {
	Load() (map[string]bool, error)
	Save(read map[string]bool) error
}

// FileReadStore keeps read flags in a JSON document.
type FileReadStore struct {
	path string
}

// NewFileReadStore creates a store backed by path.
func NewFileReadStore(path string) *FileReadStore {
	return &FileReadStore{path: path}
}

// Load returns the persisted flags; a missing file yields an empty set.
func (s *FileReadStore) Load() (map[string]bool, error) {
	read := map[string]bool{}
	if _, err := state.ReadJSON(s.path, &read); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNews, "load news read state").
			WithContext("path", s.path).
			Build()
	}
	return read, nil
}

// Save atomically replaces the persisted flags.
func (s *FileReadStore) Save(read map[string]bool) error {
	if err := state.WriteJSON(s.path, read); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNews, "save news read state").
			WithContext("path", s.path).
			Retryable().
			Build()
	}
	return nil
}
