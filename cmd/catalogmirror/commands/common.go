// Package commands implements the catalogmirror command line.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/coordinator"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"catalogmirror.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Daemon   DaemonCmd   `cmd:"" help:"Run the mirror coordinator until interrupted"`
	Poll     PollCmd     `cmd:"" help:"Run one poll against the repository"`
	Reload   ReloadCmd   `cmd:"" help:"Reload the catalog from disk"`
	Relocate RelocateCmd `cmd:"" help:"Move the repository to a new directory and relaunch from there"`
	News     NewsCmd     `cmd:"" help:"List news items or mark them as read"`
	Status   StatusCmd   `cmd:"" help:"Show repository and coordinator status"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// session is a runtime opened for a one-shot command. Display events raised
// while the command runs are printed when it ends.
type session struct {
	rt          *daemon.Runtime
	display     <-chan events.DisplayEvent
	unsubscribe func()
	closed      bool
}

func openSession(root *CLI, opts daemon.RuntimeOptions) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	s := &session{}
	rt, err := daemon.NewRuntime(cfg, coordinator.ProcessCloserFunc(func() { s.closed = true }), opts)
	if err != nil {
		return nil, err
	}
	s.rt = rt
	s.display, s.unsubscribe = events.Subscribe[events.DisplayEvent](rt.Bus, 256)
	return s, nil
}

// flush prints buffered user-facing events.
func (s *session) flush(w io.Writer) {
	for {
		select {
		case evt, ok := <-s.display:
			if !ok {
				return
			}
			printDisplayEvent(w, evt)
		default:
			return
		}
	}
}

func (s *session) Close(w io.Writer) {
	s.flush(w)
	s.unsubscribe()
	if err := s.rt.Close(); err != nil {
		slog.Warn("Closing runtime", slog.String("error", err.Error()))
	}
}

func printDisplayEvent(w io.Writer, evt events.DisplayEvent) {
	switch e := evt.(type) {
	case events.Notification:
		_, _ = fmt.Fprintf(w, "%s [%s]\n", e.Message, e.ActionLabel)
	case events.UserError:
		_, _ = fmt.Fprintf(w, "error: %s\n", e.Message)
	case events.UserMessage:
		_, _ = fmt.Fprintln(w, e.Message)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
