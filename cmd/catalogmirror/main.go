package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/catalogmirror/cmd/catalogmirror/commands"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("catalogmirror"),
		kong.Description("Keeps a local catalog mirror current and moves it between directories."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
