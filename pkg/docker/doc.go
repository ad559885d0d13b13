// Package docker runs disposable database servers for integration tests.
//
// A Container wraps a testcontainers module for the requested engine,
// waits for the server to accept connections and hands back a URL that
// database.Open understands. Init scripts seed the schema before the first
// snapshot is taken.
//
// # Usage Example
//
//	c := docker.New(docker.Options{
//		Engine:      docker.Postgres,
//		Version:     "16",
//		InitScripts: []string{"testdata/schema.sql"},
//	})
//
//	if err := c.Start(ctx); err != nil {
//		return err
//	}
//	defer c.Stop(ctx)
//
//	url, err := c.DSN(ctx)
//	if err != nil {
//		return err
//	}
//
//	db, err := database.Open(ctx, url)
//
// Tests using a Container should skip themselves when Docker is unavailable
// or when running with -short.
package docker
