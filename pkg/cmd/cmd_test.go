package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/config"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const (
	referenceDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(255) NOT NULL);
CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));
`
	targetDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(255));
`
)

// sqliteURL creates a SQLite database file from ddl and returns its URL.
func sqliteURL(t *testing.T, name, ddl string) string {
	t.Helper()

	url := "sqlite://" + filepath.Join(t.TempDir(), name+".db")
	db, err := database.Open(t.Context(), url)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.(*database.SQL).Exec(t.Context(), ddl))
	return url
}

func run(t *testing.T, command *cli.Command, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	command.Writer = &buf
	command.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := command.Run(t.Context(), append([]string{"snapdiff"}, args...))
	return buf.String(), err
}

func TestDiffCommand(t *testing.T) {
	reference := sqliteURL(t, "reference", referenceDDL)
	target := sqliteURL(t, "target", targetDDL)

	t.Run("flags", func(t *testing.T) {
		out, err := run(t, diffCmd(nil), "--reference", reference, "--target", target)
		require.NoError(t, err)
		require.Contains(t, out, "Reference Database: SQLite")
		require.Regexp(t, `Missing Table\(s\):\n\s+(main\.)?orders\n`, out)
		require.Contains(t, out, "nullable changed from 'false' to 'true'")
	})

	t.Run("fail on diff", func(t *testing.T) {
		_, err := run(t, diffCmd(nil), "--reference", reference, "--target", target, "--fail-on-diff")

		var exit cli.ExitCoder
		require.ErrorAs(t, err, &exit)
		require.Equal(t, 1, exit.ExitCode())
	})

	t.Run("no differences", func(t *testing.T) {
		_, err := run(t, diffCmd(nil), "--reference", reference, "--target", reference, "--fail-on-diff")
		require.NoError(t, err)
	})

	t.Run("config", func(t *testing.T) {
		cfg := &config.Config{
			Reference: config.Database{URL: reference},
			Target:    config.Database{URL: target},
			Filter:    config.Filter{Exclude: "orders"},
		}

		out, err := run(t, diffCmd(cfg))
		require.NoError(t, err)
		require.Contains(t, out, "Missing Table(s): NONE")
	})

	t.Run("flags override config", func(t *testing.T) {
		cfg := &config.Config{
			Reference: config.Database{URL: reference},
			Target:    config.Database{URL: target},
			Filter:    config.Filter{Exclude: "orders"},
		}

		out, err := run(t, diffCmd(cfg), "--target", reference)
		require.NoError(t, err)
		require.NotContains(t, out, "nullable changed")
	})

	t.Run("missing databases", func(t *testing.T) {
		_, err := run(t, diffCmd(nil))
		require.ErrorContains(t, err, "no reference database")
	})

	t.Run("unreachable database", func(t *testing.T) {
		_, err := run(t, diffCmd(nil), "--reference", reference, "--target", "mysql://localhost/app")
		require.ErrorIs(t, err, database.ErrUnknownScheme)
	})
}

func TestChangelogCommand(t *testing.T) {
	reference := sqliteURL(t, "reference", referenceDDL)
	target := sqliteURL(t, "target", targetDDL)
	output := filepath.Join(t.TempDir(), "changelog.yaml")

	_, err := run(t, changelogCmd(nil),
		"--reference", reference,
		"--target", target,
		"--author", "bot",
		"--id-root", "42",
		"--output", output,
	)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	yaml := string(content)
	require.True(t, strings.HasPrefix(yaml, "databaseChangeLog:\n"))
	require.Contains(t, yaml, "id: 42-1")
	require.Contains(t, yaml, "author: bot")
	require.Contains(t, yaml, "tableName: orders")
	require.Contains(t, yaml, "addNotNullConstraint:")
	require.Contains(t, yaml, "addForeignKeyConstraint:")
}

func TestSnapshotCommand(t *testing.T) {
	url := sqliteURL(t, "app", referenceDDL)

	out, err := run(t, snapshotCmd(nil), "--url", url, "--types", "table", "--types", "column")
	require.NoError(t, err)
	require.Contains(t, out, "Snapshot of SQLite")
	require.Regexp(t, `table \(2\):\n  (main\.)?orders\n  (main\.)?users\n`, out)
	require.Regexp(t, `  (main\.)?users\.email\n`, out)
	require.NotContains(t, out, "primaryKey")
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *config.Config
		args   []string
		types  []object.Type
		mode   filter.Mode
		filter bool
		err    string
	}{
		{name: "defaults"},
		{
			name:   "config",
			cfg:    &config.Config{Types: []string{"table"}, Filter: config.Filter{Include: "users"}},
			types:  []object.Type{object.TypeTable},
			mode:   filter.Include,
			filter: true,
		},
		{
			name:   "flags win",
			cfg:    &config.Config{Types: []string{"table"}, Filter: config.Filter{Include: "users"}},
			args:   []string{"--types", "view", "--exclude", "tmp_.*"},
			types:  []object.Type{object.TypeView},
			mode:   filter.Exclude,
			filter: true,
		},
		{name: "both filters", args: []string{"--include", "a", "--exclude", "b"}, err: "mutually exclusive"},
		{name: "unknown type", args: []string{"--types", "trigger"}, err: "unknown object type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				s   *scope
				err error
			)

			command := &cli.Command{
				Flags: scopeFlags(),
				Action: func(_ context.Context, cmd *cli.Command) error {
					s, err = resolveScope(tt.cfg, cmd)
					return nil
				},
			}
			require.NoError(t, command.Run(t.Context(), append([]string{"snapdiff"}, tt.args...)))

			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.types, s.types)
			if !tt.filter {
				require.Nil(t, s.filter)
				return
			}
			require.Equal(t, tt.mode, s.filter.Mode())
		})
	}
}

func TestNewApp(t *testing.T) {
	app := newApp(&Version{Version: "1.2.3"}, []*cli.Command{snapshotCmd(nil), diffCmd(nil), changelogCmd(nil)})

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"snapshot", "diff", "changelog"}, names)

	var buf bytes.Buffer
	app.Writer = &buf
	require.NoError(t, app.Run(t.Context(), []string{"snapdiff", "--version"}))
	require.Contains(t, buf.String(), "Version: 1.2.3")
}
