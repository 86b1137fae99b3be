package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/relocation"
)

// RelocateCmd implements the 'relocate' command.
type RelocateCmd struct {
	Path string `arg:"" help:"New repository directory" type:"path"`
}

func (r *RelocateCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	res := s.rt.Relocator.Move(context.Background(), r.Path)
	_, _ = fmt.Fprintf(g.out(), "relocation: %s\n", res)
	switch res {
	case relocation.ResultPreflightRejected:
		return ferrors.ValidationError("target directory is not writable").WithContext("path", r.Path).Build()
	case relocation.ResultAborted:
		return ferrors.RelocationError("relocation aborted").WithContext("path", r.Path).Build()
	}
	return nil
}
