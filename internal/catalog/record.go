package catalog

// Record is one catalog entry (a game or package).
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Demo        bool   `json:"demo,omitempty"`
	Freeware    bool   `json:"freeware,omitempty"`
	Installed   bool   `json:"installed,omitempty"`

	// Extra is the augmentation slot: nil, or side state owned by this record
	// and built for the snapshot generation it belongs to.
	Extra *Augment `json:"-"`
}

// Augment is per-record state that is not part of the catalog schema: display
// bookkeeping and the link to a running job.
type Augment struct {
	Generation int64
	Title      string
	Status     string
	JobHandle  string
	Hidden     bool
}

// Augmented reports whether the slot is populated.
func (r *Record) Augmented() bool { return r.Extra != nil }

// Attach populates the slot. Any previous value is replaced.
func (r *Record) Attach(a *Augment) { r.Extra = a }

// Teardown empties the slot. Safe to call on an empty slot.
func (r *Record) Teardown() { r.Extra = nil }
