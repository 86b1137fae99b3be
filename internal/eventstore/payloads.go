package eventstore

// PollCompleted records the action a poll chose.
type PollCompleted struct {
	Action         string `json:"action"`
	DataChanged    bool   `json:"data_changed"`
	ProgramVersion string `json:"program_version,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ReloadCompleted records a successful snapshot replacement.
type ReloadCompleted struct {
	Generation int64 `json:"generation"`
	Records    int   `json:"records"`
	Rebound    int   `json:"rebound"`
	Recovered  int   `json:"recovered"`
	Orphaned   int   `json:"orphaned"`
	DurationMS int64 `json:"duration_ms"`
}

// ReloadFailed records a reload that left the previous snapshot live.
type ReloadFailed struct {
	Error string `json:"error"`
}

// JobOrphaned records a job whose record vanished from the catalog.
type JobOrphaned struct {
	Handle   string `json:"handle"`
	RecordID string `json:"record_id"`
}

// RestartRequested records a user-triggered relaunch into a staged build.
type RestartRequested struct {
	Version    string `json:"version"`
	LaunchPath string `json:"launch_path"`
	Error      string `json:"error,omitempty"`
}

// RelocationStep records a completed relocation step.
type RelocationStep struct {
	Step string `json:"step"`
	From string `json:"from"`
	To   string `json:"to"`
}

// RelocationFinished records the final relocation outcome.
type RelocationFinished struct {
	Result string `json:"result"`
	From   string `json:"from"`
	To     string `json:"to"`
	Error  string `json:"error,omitempty"`
}
