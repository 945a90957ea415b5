package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docwiki/cmd/docwiki/commands"
	ferrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docwiki"),
		kong.Description("Build Sphinx documentation and publish it as a Markdown wiki."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(&commands.Global{}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
