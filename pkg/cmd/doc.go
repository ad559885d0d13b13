// Package cmd provides the CLI commands for snapdiff.
//
// Commands are plain *cli.Command values (urfave/cli/v3) provided to an fx
// group and assembled by Run. Database URLs, object types and the object
// filter come from snapdiff.yaml when present and can be overridden with
// flags.
//
// # Available Commands
//
//   - snapshot: capture one database and list its objects
//   - diff: compare a reference database with a target and print a report
//   - changelog: translate the differences into ordered change sets (YAML)
//
// # Example Usage
//
//	snapdiff snapshot --url sqlite://app.db --types table,column
//	snapdiff diff --reference postgres://localhost/app --target postgres://localhost/app_ci
//	snapdiff diff --exclude "table:tmp_.*" --fail-on-diff
//	snapdiff changelog --author release-bot --output changelog.yaml
//
// Reference and target are captured concurrently, each on its own connection
// and with its own generator registry.
package cmd
