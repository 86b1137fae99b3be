package commands

import (
	"git.home.luguber.info/inful/catalogmirror/internal/coordinator"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
	"git.home.luguber.info/inful/catalogmirror/internal/relocation"
	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

type statusOutput struct {
	Version     string             `json:"version"`
	Coordinator coordinator.Status `json:"coordinator"`
	NewsUnread  int                `json:"news_unread"`
	Relocated   *relocation.Marker `json:"relocated_from,omitempty"`
}

func (c *StatusCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{DisableEventStore: true})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	s.rt.Coordinator.LoadData()
	marker, err := relocation.ReadMarker(s.rt.Repo.Path())
	if err != nil {
		return err
	}
	return printJSON(g.out(), statusOutput{
		Version:     version.Version,
		Coordinator: s.rt.Coordinator.Status(),
		NewsUnread:  s.rt.Feed.Unread(),
		Relocated:   marker,
	})
}
