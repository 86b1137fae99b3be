// Package responses defines the JSON bodies returned by the admin API.
package responses

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/catalogmirror/internal/coordinator"
	"git.home.luguber.info/inful/catalogmirror/internal/jobs"
	"git.home.luguber.info/inful/catalogmirror/internal/news"
)

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Coordinator coordinator.Status `json:"coordinator"`
	Version     string             `json:"version"`
	NewsUnread  int                `json:"news_unread"`
	NewsTotal   int                `json:"news_total"`
	Timestamp   time.Time          `json:"timestamp"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// AcceptedResponse acknowledges an asynchronous request.
type AcceptedResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ReloadResponse is returned by POST /reload.
type ReloadResponse struct {
	Generation int64 `json:"generation"`
	Records    int   `json:"records"`
}

// RelocateRequest is the body of POST /relocate.
type RelocateRequest struct {
	Path string `json:"path"`
}

// RelocateResponse reports the outcome of a relocation.
type RelocateResponse struct {
	Result string `json:"result"`
	Path   string `json:"path"`
}

// TrackJobRequest is the body of POST /jobs.
type TrackJobRequest struct {
	RecordID string    `json:"record_id"`
	Kind     jobs.Kind `json:"kind"`
}

// UpdateJobRequest is the body of POST /jobs/{handle}.
type UpdateJobRequest struct {
	Status   jobs.Status `json:"status"`
	Progress float64     `json:"progress"`
}

// JobsResponse lists tracked jobs.
type JobsResponse struct {
	Jobs     []jobs.View `json:"jobs"`
	Orphaned []jobs.View `json:"orphaned"`
}

// NewsItem is one news entry with its index for mark-as-read calls.
type NewsItem struct {
	Index int `json:"index"`
	news.Item
}

// NewsResponse lists news items.
type NewsResponse struct {
	Unread int        `json:"unread"`
	Items  []NewsItem `json:"items"`
}

// EventResponse is one journal entry.
type EventResponse struct {
	ID        int64           `json:"id"`
	Stream    string          `json:"stream"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
