package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/changelog"
	"github.com/pseudomuto/snapdiff/pkg/config"
	"github.com/pseudomuto/snapdiff/pkg/consts"
	"github.com/urfave/cli/v3"
)

func changelogCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "changelog",
		Usage: "Translate the differences into ordered change sets",
		Description: `Compare the databases like diff does and write the change sets that bring
the target in line with the reference as YAML.`,
		Flags: append(compareFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "file to write the change log to (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "change set author",
			},
			&cli.StringFlag{
				Name:  "id-root",
				Usage: "prefix of the change set ids",
			},
			&cli.BoolFlag{
				Name:  "include-data",
				Usage: "seed the reference database's rows",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "write seeded rows to CSV files in this directory",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			result, closeAll, err := comparison(ctx, cfg, cmd)
			if err != nil {
				return err
			}
			defer closeAll()

			sets, err := changelog.New(translatorOptions(cfg, cmd)).Translate(ctx, result)
			if err != nil {
				return errors.Wrap(err, "failed to translate differences")
			}

			var w io.Writer = cmd.Writer
			if path := cmd.String("output"); path != "" {
				f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, consts.ModeFile)
				if err != nil {
					return errors.Wrapf(err, "failed to create %s", path)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := changelog.Write(w, sets); err != nil {
				return err
			}

			slog.Info("Generated change log", "changeSets", len(sets))
			return nil
		},
	}
}

func translatorOptions(cfg *config.Config, cmd *cli.Command) changelog.Options {
	var opts changelog.Options
	if cfg != nil {
		opts = cfg.TranslatorOptions()
	}

	if cmd.IsSet("author") {
		opts.Author = cmd.String("author")
	}
	if cmd.IsSet("id-root") {
		opts.IDRoot = cmd.String("id-root")
	}
	if cmd.IsSet("include-data") {
		opts.IncludeData = cmd.Bool("include-data")
	}
	if cmd.IsSet("data-dir") {
		opts.DataDir = cmd.String("data-dir")
	}

	return opts
}
