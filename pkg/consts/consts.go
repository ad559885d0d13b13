package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ConfigFile is the configuration file looked up in the working directory.
	ConfigFile = "snapdiff.yaml"

	// BulkFetchThreshold is the number of single-object metadata fetches issued
	// for one schema before the row cache switches to a bulk fetch.
	BulkFetchThreshold = 3

	// DefaultAuthor is the change-set author used when the invoking user cannot
	// be determined.
	DefaultAuthor = "diff-generated"

	// GeneratedAuthorSuffix is appended to the invoking user's name.
	GeneratedAuthorSuffix = " (generated)"
)

// BookkeepingTables are the tables the migration pipeline keeps its own
// history and lock state in. They never take part in a generated changelog.
var BookkeepingTables = []string{
	"schema_changelog",
	"schema_changelog_lock",
}
