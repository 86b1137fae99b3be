package coordinator

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/catalogmirror/internal/catalog"
	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// Augmenter builds the augmentation for one record of a freshly loaded snapshot.
type Augmenter func(rec *catalog.Record, generation int64) *catalog.Augment

// AugmenterFactory creates the Augmenter used for one reload.
type AugmenterFactory func(repo *repository.Handle) Augmenter

// DisplayAugmenter builds augmentation from the repository display config and statistics.
func DisplayAugmenter(repo *repository.Handle) Augmenter {
	cfg, err := config.LoadDisplay(repo.Join(config.DisplayFileName))
	if err != nil {
		slog.Warn("Using default display config", logfields.RepoPath(repo.Path()), logfields.Error(err))
	}
	return func(rec *catalog.Record, generation int64) *catalog.Augment {
		a := &catalog.Augment{
			Generation: generation,
			Title:      rec.Name,
			Hidden:     rec.Demo && !cfg.ShowDemos,
		}
		if rec.Installed {
			a.Status = "installed"
		}
		if cfg.ShowRatings {
			if st, ok := repo.Stats(rec.ID); ok && st.Rating > 0 {
				a.Title = fmt.Sprintf("%s (%.1f)", rec.Name, st.Rating)
			}
		}
		return a
	}
}
