package events

import "time"

// DisplayEvent is anything shown to the user. Subscribing to DisplayEvent
// receives every concrete event below.
type DisplayEvent interface {
	Kind() string
}

// NewsRefreshed is published after the news mirror was reloaded.
type NewsRefreshed struct {
	Unread int       `json:"unread"`
	Total  int       `json:"total"`
	At     time.Time `json:"at"`
}

// Notification is a user-visible message with one actionable choice.
type Notification struct {
	Message     string    `json:"message"`
	ActionLabel string    `json:"action_label"`
	ActionID    int       `json:"action_id"`
	At          time.Time `json:"at"`
}

// StatusUpdated is published when lightweight display statistics were refreshed.
type StatusUpdated struct {
	At time.Time `json:"at"`
}

// Reloaded is published after a reload replaced the live snapshot.
type Reloaded struct {
	Generation int64     `json:"generation"`
	Records    int       `json:"records"`
	At         time.Time `json:"at"`
}

// UserError is an error reported to the user.
type UserError struct {
	Message  string    `json:"message"`
	Category string    `json:"category,omitempty"`
	At       time.Time `json:"at"`
}

// UserMessage is an informational message for the user.
type UserMessage struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// PollRequested asks the daemon to poll outside its schedule.
// It is a control event, not a DisplayEvent.
type PollRequested struct {
	Reason      string
	RequestedAt time.Time
}

func (NewsRefreshed) Kind() string { return "news_refreshed" }
func (Notification) Kind() string  { return "notification" }
func (StatusUpdated) Kind() string { return "status_updated" }
func (Reloaded) Kind() string      { return "reloaded" }
func (UserError) Kind() string     { return "error" }
func (UserMessage) Kind() string   { return "message" }
