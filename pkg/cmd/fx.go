package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(changelogCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(diffCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(snapshotCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
