package cmd

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/config"
	"github.com/pseudomuto/snapdiff/pkg/report"
	"github.com/urfave/cli/v3"
)

func diffCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compare a reference database with a target",
		Description: `Capture both databases and report the objects missing from the target,
the objects only the target has and the objects that differ.`,
		Flags: append(compareFlags(), &cli.BoolFlag{
			Name:  "fail-on-diff",
			Usage: "exit with status 1 when differences are found",
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			result, closeAll, err := comparison(ctx, cfg, cmd)
			if err != nil {
				return err
			}
			defer closeAll()

			if err := report.Write(cmd.Writer, result); err != nil {
				return err
			}

			if cmd.Bool("fail-on-diff") && !result.IsEmpty() {
				return cli.Exit("differences found", 1)
			}
			return nil
		},
	}
}
