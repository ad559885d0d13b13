package main

import (
	"context"
	"os"

	"github.com/pseudomuto/snapdiff/pkg/cmd"
	"github.com/pseudomuto/snapdiff/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(os.Args, &cmd.Version{Version: version, Commit: commit, Timestamp: date}),
		fx.Provide(context.Background),
		config.Module,
		cmd.Module,
	)

	// Run exits with the code the command shut the app down with.
	app.Run()
}
