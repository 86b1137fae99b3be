package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRecordID   = "record_id"
	KeyJobHandle  = "job_handle"
	KeyJobStatus  = "job_status"
	KeyRepoPath   = "repository_path"
	KeyPath       = "path"
	KeyAction     = "action"
	KeyVersion    = "version"
	KeyGeneration = "generation"
	KeyStep       = "step"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RecordID(id string) slog.Attr    { return slog.String(KeyRecordID, id) }
func JobHandle(h string) slog.Attr    { return slog.String(KeyJobHandle, h) }
func JobStatus(s string) slog.Attr    { return slog.String(KeyJobStatus, s) }
func RepoPath(p string) slog.Attr     { return slog.String(KeyRepoPath, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Generation(g int64) slog.Attr    { return slog.Int64(KeyGeneration, g) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
