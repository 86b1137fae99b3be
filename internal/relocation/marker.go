package relocation

import (
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
	"git.home.luguber.info/inful/catalogmirror/internal/state"
)

// Marker is written at the new repository root and names the old one, so a later
// session can offer to delete it.
type Marker struct {
	OldRepository string    `json:"old_repository"`
	CreatedAt     time.Time `json:"created_at"`
}

// WriteMarker writes the marker file into root.
func WriteMarker(root, oldRepository string) error {
	m := Marker{OldRepository: oldRepository, CreatedAt: time.Now().UTC()}
	if err := state.WriteJSON(filepath.Join(root, repository.MarkerFile), m); err != nil {
		return ferrors.FileSystemError("write relocation marker").WithCause(err).WithContext("root", root).Build()
	}
	return nil
}

// ReadMarker returns the marker in root, or nil when there is none.
func ReadMarker(root string) (*Marker, error) {
	var m Marker
	found, err := state.ReadJSON(filepath.Join(root, repository.MarkerFile), &m)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRelocation, "read relocation marker").
			WithContext("root", root).
			Build()
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}
