package relocation

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// Importer copies the primary repository data (records, media, config) to a new
// root. Sources must not be deleted.
type Importer interface {
	ImportRepository(ctx context.Context, from, to string) error
}

// FileImporter is the filesystem Importer.
type FileImporter struct{}

// primaryGroups are the paths, relative to the repository root, that make up the primary data.
var primaryGroups = []string{repository.DataDir, repository.MediaDir, config.DisplayFileName}

// ImportRepository implements Importer.
func (FileImporter) ImportRepository(ctx context.Context, from, to string) error {
	for _, rel := range primaryGroups {
		if err := ctx.Err(); err != nil {
			return err
		}
		found, n, err := copyOptional(filepath.Join(from, rel), filepath.Join(to, rel))
		if err != nil {
			return ferrors.FileSystemError("import repository data").
				WithCause(err).
				WithContext("group", rel).
				WithContext("from", from).
				WithContext("to", to).
				Build()
		}
		if found {
			slog.Info("Imported repository data", logfields.Path(rel), logfields.Count(n))
		}
	}
	return nil
}
