package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookbuilder/cmd/bookbuilder/commands"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("bookbuilder"),
		kong.Description("Build a book of prose and code into a static site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(&commands.Global{}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
