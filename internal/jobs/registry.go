package jobs

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/catalogmirror/internal/catalog"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
)

// Job is an active background task keyed by the stable identifier of its record.
type Job struct {
	Handle    string
	RecordID  string
	Kind      Kind
	Status    Status
	Progress  float64
	Orphaned  bool
	StartedAt time.Time

	// record is resolved by identifier and only rebound by Reattach.
	record *catalog.Record
}

// View is a copy of a job safe to hand out of the registry.
type View struct {
	Handle    string    `json:"handle"`
	RecordID  string    `json:"record_id"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	Orphaned  bool      `json:"orphaned"`
	StartedAt time.Time `json:"started_at"`
}

func (j *Job) view() View {
	return View{
		Handle:    j.Handle,
		RecordID:  j.RecordID,
		Kind:      j.Kind,
		Status:    j.Status,
		Progress:  j.Progress,
		Orphaned:  j.Orphaned,
		StartedAt: j.StartedAt,
	}
}

// StatusLine renders the job for display next to its record.
func (v View) StatusLine() string {
	if v.Status == StatusDownloading || v.Status == StatusInstalling {
		return fmt.Sprintf("%s %d%%", v.Status, int(v.Progress*100))
	}
	return v.Status.String()
}

// ReattachReport lists what a Reattach did to each tracked job.
type ReattachReport struct {
	Rebound   []string // handles bound to a record of the new snapshot
	Recovered []string // previously orphaned handles bound again
	Orphaned  []string // handles whose record is absent
}

// Registry tracks active jobs independently of which record object represents their content.
//
// The job manager calls Track/Update/Finish from its own goroutines. Only Reattach
// rebinds record references, and it runs on the coordinator's goroutine.
type Registry struct {
	mu     sync.RWMutex
	jobs   map[string]*Job
	order  []string
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{jobs: make(map[string]*Job), logger: logger}
}

// Track registers a new job for recordID and binds it against snap when the record is present.
func (r *Registry) Track(recordID string, kind Kind, snap *catalog.Snapshot) (View, error) {
	if recordID == "" {
		return View{}, ferrors.ValidationError("job requires a record identifier").Build()
	}
	if kind == "" {
		kind = KindInstall
	}
	job := &Job{
		Handle:    uuid.NewString(),
		RecordID:  recordID,
		Kind:      kind,
		Status:    StatusQueued,
		StartedAt: time.Now(),
	}
	if rec, ok := snap.Lookup(recordID); ok {
		job.record = rec
	} else {
		job.Orphaned = true
	}

	r.mu.Lock()
	r.jobs[job.Handle] = job
	r.order = append(r.order, job.Handle)
	r.mu.Unlock()

	r.logger.Info("Job tracked",
		logfields.JobHandle(job.Handle),
		logfields.RecordID(recordID),
		slog.String("kind", string(kind)),
		slog.Bool("orphaned", job.Orphaned))
	return job.view(), nil
}

// Update records progress reported by the job manager.
func (r *Registry) Update(handle string, status Status, progress float64) error {
	if !status.Valid() {
		return ferrors.ValidationError("unknown job status").WithContext("status", string(status)).Build()
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[handle]
	if !ok {
		return ferrors.NotFoundError("job not found").WithContext("handle", handle).Build()
	}
	job.Status = status
	job.Progress = progress
	return nil
}

// Finish removes a completed or canceled job.
func (r *Registry) Finish(handle string) error {
	r.mu.Lock()
	job, ok := r.jobs[handle]
	if ok {
		delete(r.jobs, handle)
		for i, h := range r.order {
			if h == handle {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if !ok {
		return ferrors.NotFoundError("job not found").WithContext("handle", handle).Build()
	}
	r.logger.Info("Job finished", logfields.JobHandle(handle), logfields.RecordID(job.RecordID))
	return nil
}

// Reattach re-resolves every tracked job against snap. It visits each job exactly once;
// a job whose record is absent is flagged orphaned and kept.
func (r *Registry) Reattach(snap *catalog.Snapshot) ReattachReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report ReattachReport
	for _, handle := range r.order {
		job := r.jobs[handle]
		rec, ok := snap.Lookup(job.RecordID)
		if !ok {
			job.record = nil
			if !job.Orphaned {
				r.logger.Warn("Job orphaned: record absent from reloaded catalog",
					logfields.JobHandle(handle),
					logfields.RecordID(job.RecordID))
			}
			job.Orphaned = true
			report.Orphaned = append(report.Orphaned, handle)
			continue
		}

		job.record = rec
		if rec.Extra != nil {
			rec.Extra.JobHandle = handle
			rec.Extra.Status = job.view().StatusLine()
		}
		if job.Orphaned {
			job.Orphaned = false
			report.Recovered = append(report.Recovered, handle)
			r.logger.Info("Orphaned job recovered", logfields.JobHandle(handle), logfields.RecordID(job.RecordID))
		}
		report.Rebound = append(report.Rebound, handle)
	}
	return report
}

// HasActiveJobs reports whether any job is tracked, orphaned ones included.
func (r *Registry) HasActiveJobs() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, job := range r.jobs {
		if job.Status.IsActive() {
			return true
		}
	}
	return false
}

// Record returns the record a job is currently bound to.
func (r *Registry) Record(handle string) (*catalog.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[handle]
	if !ok || job.record == nil {
		return nil, false
	}
	return job.record, true
}

// Get returns a copy of a job.
func (r *Registry) Get(handle string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[handle]
	if !ok {
		return View{}, false
	}
	return job.view(), true
}

// Jobs returns copies of all tracked jobs in tracking order.
func (r *Registry) Jobs() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]View, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.jobs[h].view())
	}
	return out
}

// Orphaned returns copies of orphaned jobs.
func (r *Registry) Orphaned() []View {
	var out []View
	for _, v := range r.Jobs() {
		if v.Orphaned {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
