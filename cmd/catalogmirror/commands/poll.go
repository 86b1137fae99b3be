package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
)

// PollCmd implements the 'poll' command.
type PollCmd struct{}

func (p *PollCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	action := s.rt.Coordinator.OnUpdateAvailable(context.Background())
	_, _ = fmt.Fprintf(g.out(), "action: %s\n", action)
	return nil
}

// ReloadCmd implements the 'reload' command.
type ReloadCmd struct{}

func (r *ReloadCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	s.rt.Coordinator.LoadData()
	st := s.rt.Coordinator.Status()
	_, _ = fmt.Fprintf(g.out(), "generation %d, %d records\n", st.Generation, st.Records)
	return nil
}
