package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Picker decides whether a record belongs in a list view. Pickers are stateless.
type Picker func(r *Record) bool

var (
	// FreewarePicker selects full (non-demo) titles.
	FreewarePicker Picker = func(r *Record) bool { return !r.Demo }
	// DemoPicker selects demos.
	DemoPicker Picker = func(r *Record) bool { return r.Demo }
	// InstalledPicker selects installed titles.
	InstalledPicker Picker = func(r *Record) bool { return r.Installed }
)

// List is a filtered view over the live snapshot. A nil picker includes everything.
type List struct {
	name   string
	picker Picker
	byName bool
	items  []*Record
}

// NewList creates an empty view; call Refresh after each load.
func NewList(name string, picker Picker) *List {
	return &List{name: name, picker: picker}
}

// NewNameOrderedList is NewList with items ordered by record name instead of
// catalog order.
func NewNameOrderedList(name string, picker Picker) *List {
	return &List{name: name, picker: picker, byName: true}
}

// Name returns the view name.
func (l *List) Name() string { return l.name }

// Refresh rebuilds the view from a snapshot.
func (l *List) Refresh(s *Snapshot) {
	records := s.Records()
	items := make([]*Record, 0, len(records))
	for _, r := range records {
		if l.picker == nil || l.picker(r) {
			items = append(items, r)
		}
	}
	if l.byName {
		sortByName(items)
	}
	l.items = items
}

// sortByName orders records by name, case- and accent-insensitively.
func sortByName(records []*Record) {
	c := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(records[i].Name, records[j].Name) < 0
	})
}

// Items returns the records currently in the view.
func (l *List) Items() []*Record { return l.items }

// Len returns the number of records in the view.
func (l *List) Len() int { return len(l.items) }

// StandardLists returns the four views the display layer shows. The installed
// view is ordered by name.
func StandardLists() []*List {
	return []*List{
		NewList("latest", nil),
		NewList("freeware", FreewarePicker),
		NewList("demos", DemoPicker),
		NewNameOrderedList("installed", InstalledPicker),
	}
}
