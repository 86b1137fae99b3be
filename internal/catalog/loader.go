package catalog

import (
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
)

type catalogFile struct {
	Generation int64     `json:"generation"`
	Records    []*Record `json:"records"`
}

// Load reads the catalog document at path into a new snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRepository, "read catalog").
			WithContext("path", path).
			Build()
	}
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryCatalog, "parse catalog").
			WithContext("path", path).
			Build()
	}
	return NewSnapshot(doc.Generation, doc.Records)
}

// ReadGeneration returns the change counter of the catalog document without building a snapshot.
// A missing document reports generation 0.
func ReadGeneration(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, ferrors.WrapError(err, ferrors.CategoryRepository, "read catalog").Build()
	}
	var head struct {
		Generation int64 `json:"generation"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryCatalog, "parse catalog generation").Build()
	}
	return head.Generation, nil
}

// Write stores records as a catalog document. Used by tooling and tests that stage repositories.
func Write(path string, generation int64, records []*Record) error {
	data, err := json.MarshalIndent(catalogFile{Generation: generation, Records: records}, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryCatalog, "encode catalog").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write catalog").
			WithContext("path", path).
			Build()
	}
	return nil
}
