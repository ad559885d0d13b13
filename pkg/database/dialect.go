package database

import (
	"slices"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/utils"
)

type (
	// Dialect describes what a database product supports and how to read its
	// metadata.
	Dialect struct {
		// Name is the short identifier used in configuration ("postgres").
		Name string

		// ProductName is the human readable product name ("PostgreSQL").
		ProductName string

		SupportsCatalogs  bool
		SupportsSchemas   bool
		SupportsSequences bool

		// CaseSensitive controls whether identifiers differing only in case
		// name different objects.
		CaseSensitive bool

		// DefaultCatalog and DefaultSchema name the namespaces a null catalog
		// or schema resolves to.
		DefaultCatalog string
		DefaultSchema  string

		// PreserveLeadingSpace keeps a leading space on metadata string values
		// instead of trimming it. It is for dialects that encode meaning in that
		// space (autogenerated index names). None of the built-in dialects does,
		// so only dialects defined by callers set it.
		PreserveLeadingSpace bool

		// SynthesizedPrefix marks names the server generates for constraints
		// declared without one. Such names cannot be given to new objects.
		SynthesizedPrefix string

		// Quote is the identifier quote character.
		Quote string

		// Unsupported lists object types the dialect exposes no metadata for.
		Unsupported []object.Type

		// Queries builds the metadata statements.
		Queries MetadataQueries
	}

	// MetadataQueries produces the statements a dialect answers metadata
	// lookups with.
	MetadataQueries interface {
		// Query returns the statement and arguments reading rows of kind. An
		// empty Lookup.Table asks for every object of that kind in the schema.
		Query(kind object.Type, l Lookup) (string, []any, error)

		// Version returns a statement selecting the server version as a column
		// named "version".
		Version() string
	}

	// Lookup narrows a metadata query. Empty fields are wildcards. Table names
	// the owning relation for child kinds, and the object itself for tables,
	// views and sequences.
	Lookup struct {
		Catalog string
		Schema  string
		Table   string
	}
)

// NormalizeName folds name to lower case when the dialect is case-insensitive.
func (d *Dialect) NormalizeName(name string) string {
	if d.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// NamesEqual compares two identifiers using the dialect's case rules.
func (d *Dialect) NamesEqual(a, b string) bool {
	if d.CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// IsSynthesizedName reports whether name was generated by the server rather
// than chosen by a user.
func (d *Dialect) IsSynthesizedName(name string) bool {
	if d.SynthesizedPrefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(name), d.SynthesizedPrefix)
}

// Supports reports whether the dialect can describe objects of type t.
func (d *Dialect) Supports(t object.Type) bool {
	switch t {
	case object.TypeSequence:
		if !d.SupportsSequences {
			return false
		}
	case object.TypeCatalog:
		if !d.SupportsCatalogs {
			return true // the implicit default catalog
		}
	}

	return !slices.Contains(d.Unsupported, t)
}

// StandardTypes returns the object types a snapshot of this dialect includes
// by default.
func (d *Dialect) StandardTypes() []object.Type {
	var types []object.Type
	for _, t := range object.Types() {
		if d.Supports(t) {
			types = append(types, t)
		}
	}
	return types
}

// QuoteIdentifier quotes a single identifier.
func (d *Dialect) QuoteIdentifier(name string) string {
	return utils.QuoteIdentifier(d.Quote, name)
}

// QualifiedName renders schema.name, dropping the schema when the dialect has
// no schemas or none is given.
func (d *Dialect) QualifiedName(schema, name string) string {
	if !d.SupportsSchemas {
		schema = ""
	}
	return utils.QuoteQualified(d.Quote, schema, name)
}

// Dialects returns the built-in dialects.
func Dialects() []*Dialect {
	return []*Dialect{Postgres, SQLite, ClickHouse}
}

// LookupDialect finds a built-in dialect by name, case-insensitively.
func LookupDialect(name string) (*Dialect, bool) {
	for _, d := range Dialects() {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return nil, false
}
