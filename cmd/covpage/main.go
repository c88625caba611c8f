package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/covpage/cmd/covpage/commands"
	"git.home.luguber.info/inful/covpage/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("covpage"),
		kong.Description("Builds a documentation site and integrates an HTML coverage report into it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
