package coordinator

import (
	"context"

	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

// RestartActionID is the notification action that relaunches into a staged build.
const RestartActionID = 2

// Display is the presentation layer the coordinator drives.
type Display interface {
	RefreshNews()
	DisplayNotification(message, actionLabel string, actionID int)
	UpdateStatus()
	NotifyReloaded()
}

// Reporter shows errors and messages to the user.
type Reporter interface {
	Error(err error)
	Say(msg string)
}

// ProcessCloser ends the running program.
type ProcessCloser interface {
	CloseProcess()
}

// ProcessCloserFunc adapts a function to ProcessCloser.
type ProcessCloserFunc func()

// CloseProcess calls f.
func (f ProcessCloserFunc) CloseProcess() { f() }

// VersionSource yields the latest probe outcome.
type VersionSource interface {
	Refresh(ctx context.Context) (version.State, error)
}

// NewsSource reloads the news mirror.
type NewsSource interface {
	Reload() error
}
