package helpers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// RepoRecord is the on-disk shape of a catalog record used to stage test repositories.
type RepoRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Demo      bool   `json:"demo,omitempty"`
	Installed bool   `json:"installed,omitempty"`
}

// RepoNewsItem is the on-disk shape of a news item.
type RepoNewsItem struct {
	ID      string `json:"id"`
	Date    int64  `json:"date"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RepoBuilder stages a repository directory tree for tests.
type RepoBuilder struct {
	t    *testing.T
	Root string
}

// NewRepo creates an empty repository under a fresh temp dir.
func NewRepo(t *testing.T) *RepoBuilder {
	t.Helper()
	return &RepoBuilder{t: t, Root: filepath.Join(t.TempDir(), "repo")}
}

// WriteFile writes a file relative to the repository root.
func (b *RepoBuilder) WriteFile(rel, content string) *RepoBuilder {
	b.t.Helper()
	path := filepath.Join(b.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		b.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		b.t.Fatalf("write %s: %v", path, err)
	}
	return b
}

// WriteJSON encodes v into a file relative to the repository root.
func (b *RepoBuilder) WriteJSON(rel string, v any) *RepoBuilder {
	b.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		b.t.Fatalf("marshal %s: %v", rel, err)
	}
	return b.WriteFile(rel, string(data))
}

// Catalog writes data/catalog.json.
func (b *RepoBuilder) Catalog(generation int64, records ...RepoRecord) *RepoBuilder {
	b.t.Helper()
	return b.WriteJSON("data/catalog.json", map[string]any{"generation": generation, "records": records})
}

// News writes data/news.json.
func (b *RepoBuilder) News(items ...RepoNewsItem) *RepoBuilder {
	b.t.Helper()
	return b.WriteJSON("data/news.json", items)
}

// Full stages every file group a relocation copies.
func (b *RepoBuilder) Full() *RepoBuilder {
	b.t.Helper()
	return b.Catalog(1, RepoRecord{ID: "alpha", Name: "Alpha"}).
		WriteFile("media/alpha/shot1.png", "png").
		WriteFile("catalogmirror.conf", "show_demos: true\n").
		WriteFile("run/1/catalogmirror", "#!/bin/sh\n").
		WriteFile("sync/channels/main/state", "channel").
		WriteFile("sync/cache.conf", "cache=1\n")
}
