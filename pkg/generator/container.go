package generator

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type (
	catalogHandler struct{}
	schemaHandler  struct{}
)

// Catalog produces catalogs. Dialects without catalogs have a single implicit
// default catalog.
func Catalog() snapshot.Generator {
	return newGenerator(CatalogName, object.TypeCatalog, catalogHandler{})
}

// Schema produces schemas and adds every schema of a catalog to it.
func Schema() snapshot.Generator {
	return newGenerator(SchemaName, object.TypeSchema, schemaHandler{}, withAddsTo(object.TypeCatalog))
}

func (catalogHandler) snapshotObject(_ context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	return catalogFor(snap.Dialect(), example.GetName()), nil
}

func (catalogHandler) addTo(context.Context, object.Object, *snapshot.Snapshot) error {
	return nil
}

func catalogFor(d *database.Dialect, name string) *object.Catalog {
	if !d.SupportsCatalogs || name == "" {
		return &object.Catalog{Name: d.DefaultCatalog, IsDefault: true}
	}
	return &object.Catalog{Name: name, IsDefault: d.NamesEqual(name, d.DefaultCatalog)}
}

func (schemaHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	d := snap.Dialect()
	ex := example.(*object.Schema)

	var catalogName string
	if ex.Catalog != nil {
		catalogName = ex.Catalog.Name
	}

	if !d.SupportsSchemas {
		return newSchema(snap, d.DefaultSchema, catalogName)
	}

	l := lookupFor(d, ex, "")
	rows, err := metadata(ctx, snap, object.TypeSchema, l)
	if err != nil {
		return nil, err
	}

	row := matchingRow(d, rows, database.ColSchema, l.Schema)
	if row == nil {
		return nil, nil
	}

	return newSchema(snap, row.String(database.ColSchema), catalogName)
}

func (schemaHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	d := snap.Dialect()
	if !d.SupportsSchemas {
		_, err := snap.Include(ctx, &object.Schema{Name: d.DefaultSchema, Catalog: owner.(*object.Catalog)})
		return err
	}

	rows, err := metadata(ctx, snap, object.TypeSchema, database.Lookup{})
	if err != nil {
		return err
	}

	for _, row := range rows {
		example := &object.Schema{Name: row.String(database.ColSchema), Catalog: owner.(*object.Catalog)}
		if _, err := snap.Include(ctx, example); err != nil {
			return err
		}
	}

	return nil
}

// newSchema builds a schema and stores its catalog alongside it.
func newSchema(snap *snapshot.Snapshot, name, catalogName string) (object.Object, error) {
	d := snap.Dialect()

	cat, err := snap.Adopt(catalogFor(d, catalogName))
	if err != nil {
		return nil, err
	}

	s := &object.Schema{Name: name, IsDefault: d.NamesEqual(name, d.DefaultSchema)}
	if cat != nil {
		s.Catalog = cat.(*object.Catalog)
	}
	return s, nil
}
