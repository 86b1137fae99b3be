package catalog

import (
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
)

// RecordStats are lightweight display statistics refreshed without a reload.
type RecordStats struct {
	Downloads int     `json:"downloads"`
	Rating    float64 `json:"rating"`
}

// Stats maps record identifiers to their statistics.
type Stats map[string]RecordStats

// LoadStats reads the statistics document. A missing document yields empty stats.
func LoadStats(path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryRepository, "read stats").Build()
	}
	stats := Stats{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryCatalog, "parse stats").Build()
	}
	return stats, nil
}
