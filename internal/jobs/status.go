package jobs

// Status represents the state of a background job.
type Status string

const (
	// StatusQueued means the job manager accepted the job but has not started it.
	StatusQueued Status = "queued"
	// StatusDownloading means payload bytes are being fetched.
	StatusDownloading Status = "downloading"
	// StatusInstalling means the payload is being unpacked into the repository.
	StatusInstalling Status = "installing"
	// StatusPaused means the job manager suspended the job; it still holds repository files.
	StatusPaused Status = "paused"
)

// String returns the string representation of Status.
func (s Status) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusDownloading, StatusInstalling, StatusPaused:
		return true
	}
	return false
}

// IsActive returns true for every status a tracked job can have. Jobs leave the
// registry on completion or cancellation, so a tracked job is always active.
func (s Status) IsActive() bool { return s.Valid() }

// Kind is what the job does to its record.
type Kind string

const (
	KindInstall   Kind = "install"
	KindDownload  Kind = "download"
	KindUninstall Kind = "uninstall"
)
