package cmd

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/config"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/generator"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// scope is the object scope shared by every command.
type scope struct {
	types  []object.Type
	filter *filter.Filter
}

// captured is a snapshot and the connection it was taken on.
type captured struct {
	snap *snapshot.Snapshot
	db   database.Database
}

func (c *captured) Close() {
	if c != nil && c.db != nil {
		_ = c.db.Close()
	}
}

func scopeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "types",
			Usage: "object types to capture and compare (default: the dialect's standard types)",
		},
		&cli.StringFlag{
			Name:  "include",
			Usage: "only objects matching this filter expression, e.g. \"table:orders_.*\"",
		},
		&cli.StringFlag{
			Name:  "exclude",
			Usage: "skip objects matching this filter expression",
		},
	}
}

func compareFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "reference",
			Aliases: []string{"r"},
			Usage:   "URL of the database describing the desired state",
			Sources: cli.EnvVars("SNAPDIFF_REFERENCE_URL"),
		},
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "URL of the database compared against the reference",
			Sources: cli.EnvVars("SNAPDIFF_TARGET_URL"),
		},
	}, scopeFlags()...)
}

// resolveScope merges flags over the config file.
func resolveScope(cfg *config.Config, cmd *cli.Command) (*scope, error) {
	s := &scope{}

	var err error
	switch {
	case cmd.IsSet("types"):
		for _, name := range cmd.StringSlice("types") {
			t, err := object.ParseType(name)
			if err != nil {
				return nil, err
			}
			s.types = append(s.types, t)
		}
	case cfg != nil:
		if s.types, err = cfg.ObjectTypes(); err != nil {
			return nil, err
		}
	}

	include, exclude := cmd.String("include"), cmd.String("exclude")
	switch {
	case include != "" && exclude != "":
		return nil, errors.New("--include and --exclude are mutually exclusive")
	case include != "":
		s.filter, err = filter.Parse(include, filter.Include)
	case exclude != "":
		s.filter, err = filter.Parse(exclude, filter.Exclude)
	case cfg != nil:
		s.filter, err = cfg.ObjectFilter()
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// databaseURL returns the flag value, falling back to the config file.
func databaseURL(cmd *cli.Command, flag string, fromConfig func(*config.Config) string, cfg *config.Config) (string, error) {
	if url := cmd.String(flag); url != "" {
		return url, nil
	}
	if cfg != nil {
		if url := fromConfig(cfg); url != "" {
			return url, nil
		}
	}

	return "", errors.Errorf("no %s database: pass --%s or set it in snapdiff.yaml", flag, flag)
}

// capture opens url and snapshots it with a registry of its own.
func capture(ctx context.Context, url string, s *scope) (*captured, error) {
	db, err := database.Open(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", database.Redact(url))
	}

	control := snapshot.NewControl(db.Dialect(), s.types...).WithFilter(s.filter)
	snap, err := snapshot.NewFactory(generator.Default()).Create(ctx, db, control, nil)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to snapshot %s", database.Redact(url))
	}

	return &captured{snap: snap, db: db}, nil
}

// compareDatabases snapshots both databases concurrently and diffs them. The
// returned snapshots stay connected until closed.
func compareDatabases(ctx context.Context, referenceURL, targetURL string, s *scope) (*diff.Result, func(), error) {
	var reference, target *captured

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reference, err = capture(gctx, referenceURL, s)
		return err
	})
	g.Go(func() (err error) {
		target, err = capture(gctx, targetURL, s)
		return err
	})

	closeAll := func() {
		reference.Close()
		target.Close()
	}

	if err := g.Wait(); err != nil {
		closeAll()
		return nil, nil, err
	}

	result, err := diff.Compare(reference.snap, target.snap, diff.Options{Types: s.types, Filter: s.filter})
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	slog.Info("Compared databases",
		"reference", database.Redact(referenceURL),
		"target", database.Redact(targetURL),
		"differences", len(result.Types()),
	)

	return result, closeAll, nil
}

// comparison resolves the databases and scope for cmd and compares them.
func comparison(ctx context.Context, cfg *config.Config, cmd *cli.Command) (*diff.Result, func(), error) {
	s, err := resolveScope(cfg, cmd)
	if err != nil {
		return nil, nil, err
	}

	referenceURL, err := databaseURL(cmd, "reference", func(c *config.Config) string { return c.Reference.URL }, cfg)
	if err != nil {
		return nil, nil, err
	}

	targetURL, err := databaseURL(cmd, "target", func(c *config.Config) string { return c.Target.URL }, cfg)
	if err != nil {
		return nil, nil, err
	}

	return compareDatabases(ctx, referenceURL, targetURL, s)
}
