package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// Postgres runs the official postgres alpine image.
	Postgres Engine = "postgres"
	// ClickHouse runs the clickhouse-server alpine image.
	ClickHouse Engine = "clickhouse"

	defaultDatabase = "snapdiff"
	defaultUser     = "snapdiff"
	defaultPassword = "snapdiff"
	startupDeadline = 5 * time.Minute
)

// ErrNotRunning is returned by DSN before Start or after Stop.
var ErrNotRunning = errors.New("container is not running")

type (
	// Engine names the database server a Container runs.
	Engine string

	// Options configures a Container.
	Options struct {
		// Engine selects the server image. Defaults to Postgres.
		Engine Engine

		// Version is the image tag prefix, e.g. "16" or "25.7". Defaults to
		// "latest".
		Version string

		// Database is created at startup. Defaults to "snapdiff".
		Database string

		// InitScripts are SQL files run once the server is up, in order.
		InitScripts []string
	}

	// Container is a disposable database server for integration tests.
	Container struct {
		options   Options
		container testcontainers.Container
		dsn       func(context.Context) (string, error)
	}
)

// New returns a Container for opts. Nothing is started until Start is called.
//
// Example:
//
//	c := docker.New(docker.Options{Engine: docker.Postgres, Version: "16"})
//	if err := c.Start(ctx); err != nil {
//		return err
//	}
//	defer c.Stop(ctx)
//
//	url, err := c.DSN(ctx)
func New(opts Options) *Container {
	if opts.Engine == "" {
		opts.Engine = Postgres
	}
	if opts.Version == "" {
		opts.Version = "latest"
	}
	if opts.Database == "" {
		opts.Database = defaultDatabase
	}

	return &Container{options: opts}
}

// Engine returns the configured server engine.
func (c *Container) Engine() Engine { return c.options.Engine }

// Start pulls the image if necessary and waits for the server to accept
// connections.
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	switch c.options.Engine {
	case Postgres:
		return c.startPostgres(ctx)
	case ClickHouse:
		return c.startClickHouse(ctx)
	default:
		return errors.Errorf("unsupported engine: %s", c.options.Engine)
	}
}

func (c *Container) startPostgres(ctx context.Context) error {
	ctr, err := postgres.Run(ctx,
		fmt.Sprintf("postgres:%s-alpine", c.options.Version),
		postgres.WithDatabase(c.options.Database),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		postgres.WithInitScripts(c.options.InitScripts...),
		testcontainers.WithWaitStrategyAndDeadline(
			startupDeadline,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start Postgres container")
	}

	c.container = ctr
	c.dsn = func(ctx context.Context) (string, error) {
		return ctr.ConnectionString(ctx, "sslmode=disable")
	}
	return nil
}

func (c *Container) startClickHouse(ctx context.Context) error {
	ctr, err := clickhouse.Run(ctx,
		fmt.Sprintf("clickhouse/clickhouse-server:%s-alpine", c.options.Version),
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		clickhouse.WithDatabase(c.options.Database),
		clickhouse.WithInitScripts(c.options.InitScripts...),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			startupDeadline,
			wait.
				ForHTTP("/").
				WithPort("8123/tcp").
				WithStatusCodeMatcher(func(status int) bool {
					return status == 200
				}),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start ClickHouse container")
	}

	c.container = ctr
	c.dsn = func(ctx context.Context) (string, error) {
		return ctr.ConnectionString(ctx)
	}
	return nil
}

// Stop terminates and removes the container. It is a no-op when nothing is
// running.
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil
	}

	err := c.container.Terminate(ctx)
	c.container = nil
	c.dsn = nil

	if err != nil {
		return errors.Wrapf(err, "failed to stop %s container", c.options.Engine)
	}

	return nil
}

// DSN returns a URL that database.Open accepts for the running server.
func (c *Container) DSN(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", ErrNotRunning
	}

	url, err := c.dsn(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return url, nil
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (c *Container) IsRunning() bool {
	return c.container != nil
}
