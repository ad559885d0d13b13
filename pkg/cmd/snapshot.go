package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/pseudomuto/snapdiff/pkg/config"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/urfave/cli/v3"
)

func snapshotCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Capture a database and list its objects",
		Description: `Capture the structure of one database and print every object grouped by
type. Without --url the reference database from snapdiff.yaml is used.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "URL of the database to capture",
			},
		}, scopeFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := resolveScope(cfg, cmd)
			if err != nil {
				return err
			}

			url, err := databaseURL(cmd, "url", func(c *config.Config) string { return c.Reference.URL }, cfg)
			if err != nil {
				return err
			}

			c, err := capture(ctx, url, s)
			if err != nil {
				return err
			}
			defer c.Close()

			meta := c.snap.Metadata()
			fmt.Fprintf(cmd.Writer, "Snapshot of %s %s (%s)\n", meta.ProductName, meta.ProductVersion, meta.Dialect)

			for _, t := range object.Types() {
				objs := c.snap.All(t)
				if len(objs) == 0 {
					continue
				}

				names := make([]string, len(objs))
				for i, o := range objs {
					names[i] = fmt.Sprint(o)
				}
				slices.Sort(names)

				fmt.Fprintf(cmd.Writer, "%s (%d):\n", t, len(objs))
				for _, name := range names {
					fmt.Fprintf(cmd.Writer, "  %s\n", name)
				}
			}

			return nil
		},
	}
}
