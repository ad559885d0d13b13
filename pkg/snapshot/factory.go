package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Factory builds snapshots of live databases.
type Factory struct {
	registry *Registry
}

// NewFactory creates a factory running the generators in r.
func NewFactory(r *Registry) *Factory {
	return &Factory{registry: r}
}

// Registry returns the factory's generators.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// DefaultExamples returns the starting point of a whole-database snapshot:
// the dialect's default schema.
func DefaultExamples(d *database.Dialect) []object.Object {
	return []object.Object{
		&object.Schema{
			Name:      d.DefaultSchema,
			Catalog:   &object.Catalog{Name: d.DefaultCatalog, IsDefault: true},
			IsDefault: true,
		},
	}
}

// Create snapshots db. Each example is included in turn (DefaultExamples when
// none are given) and the result is cross-linked once everything is loaded.
// Any metadata failure discards the partial snapshot and returns an error
// matching ErrMetadataAccess.
//
// Example:
//
//	snap, err := factory.Create(ctx, db, snapshot.NewControl(db.Dialect()), nil)
func (f *Factory) Create(
	ctx context.Context,
	db database.Database,
	control *Control,
	examples []object.Object,
	opts ...Option,
) (*Snapshot, error) {
	start := time.Now()
	d := db.Dialect()

	version, err := database.Version(ctx, db)
	if err != nil {
		return nil, &MetadataError{Name: "server version", Err: err}
	}

	if len(examples) == 0 {
		examples = DefaultExamples(d)
	}

	opts = append([]Option{
		WithDatabase(db),
		WithRegistry(f.registry),
		WithMetadata(Metadata{Dialect: d.Name, ProductName: d.ProductName, ProductVersion: version}),
	}, opts...)

	s := New(d, control, opts...)
	s.examples = examples

	for _, ex := range examples {
		if _, err := s.Include(ctx, ex); err != nil {
			return nil, err
		}
	}

	s.relate()

	slog.Info("Created snapshot",
		"dialect", d.Name,
		"version", version,
		"tables", len(s.ordered[object.TypeTable]),
		"views", len(s.ordered[object.TypeView]),
		"duration", time.Since(start),
	)

	return s, nil
}
