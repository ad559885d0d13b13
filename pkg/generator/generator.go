package generator

import (
	"context"
	"slices"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

// Generator names. Dialect-specific generators replace generic ones by these
// names.
const (
	CatalogName          = "catalog"
	SchemaName           = "schema"
	TableName            = "table"
	ViewName             = "view"
	ColumnName           = "column"
	PrimaryKeyName       = "primaryKey"
	IndexName            = "index"
	UniqueConstraintName = "uniqueConstraint"
	ForeignKeyName       = "foreignKey"
	SequenceName         = "sequence"
)

type (
	// handler holds the type-specific work of a generator.
	handler interface {
		// snapshotObject reads the object matching example, or returns nil.
		snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error)

		// addTo finds the objects of the produced type owned by owner and
		// attaches them to it.
		addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error
	}

	// generator adapts a handler to snapshot.Generator.
	generator struct {
		name     string
		produces object.Type
		addsTo   []object.Type
		priority int
		replaces []string
		dialects []string
		h        handler
	}

	option func(*generator)
)

func withAddsTo(types ...object.Type) option {
	return func(g *generator) { g.addsTo = types }
}

func withReplaces(names ...string) option {
	return func(g *generator) { g.replaces = names }
}

// forDialect limits the generator to one dialect and raises its priority over
// the generic generators.
func forDialect(name string) option {
	return func(g *generator) {
		g.dialects = append(g.dialects, name)
		g.priority = snapshot.PriorityDatabase
	}
}

func newGenerator(name string, produces object.Type, h handler, opts ...option) *generator {
	g := &generator{
		name:     name,
		produces: produces,
		priority: snapshot.PriorityDefault,
		h:        h,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *generator) Name() string { return g.name }
func (g *generator) Replaces() []string { return g.replaces }
func (g *generator) Produces() object.Type { return g.produces }
func (g *generator) AddsTo() []object.Type { return g.addsTo }

func (g *generator) Priority(t object.Type, d *database.Dialect) int {
	if len(g.dialects) > 0 && !slices.Contains(g.dialects, d.Name) {
		return snapshot.PriorityNone
	}
	if !d.Supports(g.produces) {
		return snapshot.PriorityNone
	}

	switch {
	case t == g.produces:
		return g.priority
	case slices.Contains(g.addsTo, t):
		return snapshot.PriorityAdditional
	}

	return snapshot.PriorityNone
}

// Snapshot produces objects of g's own type directly. For the types it adds
// to, it lets the rest of the chain produce the owner first and then attaches
// its objects, provided the snapshot captures them.
func (g *generator) Snapshot(
	ctx context.Context,
	example object.Object,
	snap *snapshot.Snapshot,
	chain *snapshot.Chain,
) (object.Object, error) {
	if example.ObjectType() == g.produces {
		return g.h.snapshotObject(ctx, example, snap)
	}

	owner, err := chain.Snapshot(ctx, example, snap)
	if err != nil || owner == nil {
		return owner, err
	}

	if snap.Control().ShouldInclude(g.produces) {
		if err := g.h.addTo(ctx, owner, snap); err != nil {
			return nil, err
		}
	}

	return owner, nil
}

// Default returns a registry holding every built-in generator.
func Default() *snapshot.Registry {
	return snapshot.NewRegistry(
		Catalog(),
		Schema(),
		Table(),
		View(),
		Column(),
		PrimaryKey(),
		Index(),
		UniqueConstraint(),
		ForeignKey(),
		Sequence(),
		ClickHouseColumn(),
		ClickHousePrimaryKey(),
		SQLiteIndex(),
		SQLiteView(),
	)
}
