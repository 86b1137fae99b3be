package news

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/state"
)

// DateLayout is the display format of item dates.
const DateLayout = "2006-01-02"

// Item is one dated news entry.
type Item struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	DateText string    `json:"date_text"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	BodyHTML string    `json:"body_html"`
	Summary  string    `json:"summary"`
	Read     bool      `json:"read"`
}

type rawItem struct {
	ID      string `json:"id"`
	Date    int64  `json:"date"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Feed is the in-memory mirror of the news file and its read flags.
type Feed struct {
	path  string
	store ReadStore
	md    goldmark.Markdown

	mu    sync.RWMutex
	items []Item
	read  map[string]bool
}

// NewFeed creates a feed over the news file at path. Call Reload to populate it.
func NewFeed(path string, store ReadStore) *Feed {
	return &Feed{path: path, store: store, md: goldmark.New(), read: map[string]bool{}}
}

// Reload rebuilds the mirror from the news file and the read store.
func (f *Feed) Reload() error {
	var raw []rawItem
	if _, err := state.ReadJSON(f.path, &raw); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNews, "load news").WithContext("path", f.path).Build()
	}
	read, err := f.store.Load()
	if err != nil {
		return err
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		r.ID = uniqueID(r, seen)
		date := time.Unix(r.Date, 0).UTC()
		var html bytes.Buffer
		if err := f.md.Convert([]byte(r.Body), &html); err != nil {
			slog.Warn("Cannot render news body", slog.String("id", r.ID), logfields.Error(err))
			html.Reset()
		}
		items = append(items, Item{
			ID:       r.ID,
			Date:     date,
			DateText: date.Format(DateLayout),
			Subject:  r.Subject,
			Body:     r.Body,
			BodyHTML: html.String(),
			Summary:  summarize(html.String(), SummaryLength),
			Read:     read[r.ID],
		})
	}

	f.mu.Lock()
	f.items = items
	f.read = read
	f.mu.Unlock()
	return nil
}

// uniqueID keys read state per item. Items without an id fall back to date and
// subject; repeats get an occurrence suffix so every index maps to one key.
func uniqueID(r rawItem, seen map[string]bool) string {
	base := r.ID
	if base == "" {
		base = fmt.Sprintf("%d-%s", r.Date, r.Subject)
	}
	id := base
	for n := 2; seen[id]; n++ {
		id = fmt.Sprintf("%s#%d", base, n)
	}
	seen[id] = true
	return id
}

// Items returns a copy of the mirror.
func (f *Feed) Items() []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Item(nil), f.items...)
}

// Len returns the number of items.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Unread counts items not yet marked read.
func (f *Feed) Unread() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, it := range f.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkAsRead flags item i as read.
func (f *Feed) MarkAsRead(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.items) {
		return ferrors.ValidationError("news index out of range").
			WithContext("index", i).
			WithContext("count", len(f.items)).
			Build()
	}
	next := f.cloneRead()
	next[f.items[i].ID] = true
	if err := f.store.Save(next); err != nil {
		return err
	}
	f.read = next
	f.items[i].Read = true
	return nil
}

// MarkAllAsRead flags every item as read.
func (f *Feed) MarkAllAsRead() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.cloneRead()
	for _, it := range f.items {
		next[it.ID] = true
	}
	if err := f.store.Save(next); err != nil {
		return err
	}
	f.read = next
	for i := range f.items {
		f.items[i].Read = true
	}
	return nil
}

func (f *Feed) cloneRead() map[string]bool {
	if f.read == nil {
		return map[string]bool{}
	}
	return maps.Clone(f.read)
}
