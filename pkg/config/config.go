package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/changelog"
	"github.com/pseudomuto/snapdiff/pkg/consts"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configurations that decode but cannot be
// used.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Database locates one side of a comparison.
	Database struct {
		// URL is a database URL such as postgres://..., sqlite://path or
		// clickhouse://... Environment variables are expanded.
		URL string `yaml:"url"`
	}

	// Filter holds an object filter expression. At most one of Include and
	// Exclude may be set.
	Filter struct {
		Include string `yaml:"include,omitempty"`
		Exclude string `yaml:"exclude,omitempty"`
	}

	// Changelog configures change set generation.
	Changelog struct {
		// Author is set on every change set. Defaults to the invoking user.
		Author string `yaml:"author,omitempty"`

		// IDRoot prefixes change set ids. Defaults to the current time.
		IDRoot string `yaml:"id_root,omitempty"`

		// DataDir receives CSV files when IncludeData is set.
		DataDir string `yaml:"data_dir,omitempty"`

		// IncludeData seeds the reference database's rows.
		IncludeData bool `yaml:"include_data,omitempty"`
	}

	// Config is the snapdiff.yaml project configuration.
	Config struct {
		// Reference is the database describing the desired state.
		Reference Database `yaml:"reference"`

		// Target is the database compared against the reference.
		Target Database `yaml:"target"`

		// Types limits the captured and compared object types. Empty means
		// the dialect's standard types.
		Types []string `yaml:"types,omitempty"`

		Filter    Filter    `yaml:"filter,omitempty"`
		Changelog Changelog `yaml:"changelog,omitempty"`

		// BookkeepingTables are excluded from generated change sets.
		BookkeepingTables []string `yaml:"bookkeeping_tables,omitempty"`
	}
)

// LoadConfig parses a configuration from r and applies defaults.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	reference:
//	  url: postgres://localhost/app
//	target:
//	  url: postgres://localhost/app_test
//	filter:
//	  exclude: "table:tmp_.*"
//	`))
//	if err != nil {
//		return err
//	}
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapdiff config")
	}

	cfg.Reference.URL = os.ExpandEnv(cfg.Reference.URL)
	cfg.Target.URL = os.ExpandEnv(cfg.Target.URL)
	if cfg.BookkeepingTables == nil {
		cfg.BookkeepingTables = consts.BookkeepingTables
	}

	if _, err := cfg.ObjectTypes(); err != nil {
		return nil, err
	}
	if _, err := cfg.ObjectFilter(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFile loads a configuration from path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// ObjectTypes parses Types. A nil result means the dialect defaults.
func (c *Config) ObjectTypes() ([]object.Type, error) {
	types := make([]object.Type, 0, len(c.Types))
	for _, s := range c.Types {
		t, err := object.ParseType(s)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "types: %s", err)
		}
		types = append(types, t)
	}

	if len(types) == 0 {
		return nil, nil
	}
	return types, nil
}

// ObjectFilter parses the filter expression, returning nil when none is set.
func (c *Config) ObjectFilter() (*filter.Filter, error) {
	switch {
	case c.Filter.Include != "" && c.Filter.Exclude != "":
		return nil, errors.Wrap(ErrInvalidConfig, "filter: include and exclude are mutually exclusive")
	case c.Filter.Include != "":
		return filter.Parse(c.Filter.Include, filter.Include)
	case c.Filter.Exclude != "":
		return filter.Parse(c.Filter.Exclude, filter.Exclude)
	}

	return nil, nil
}

// TranslatorOptions returns the change set settings.
func (c *Config) TranslatorOptions() changelog.Options {
	return changelog.Options{
		IDRoot:            c.Changelog.IDRoot,
		Author:            c.Changelog.Author,
		IncludeData:       c.Changelog.IncludeData,
		DataDir:           c.Changelog.DataDir,
		BookkeepingTables: c.BookkeepingTables,
	}
}
