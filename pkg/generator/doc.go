// Package generator contains the snapshot generators that read database
// metadata into objects.
//
// Each generator produces one object type and may extend objects of other
// types: the table generator produces tables and also adds every table to the
// schema being snapshotted, the column generator adds columns to tables and
// views, and so on. Dialect-specific generators (ClickHouse columns and
// primary keys, SQLite indexes) replace their generic counterparts by name.
//
// Metadata rows are read through the snapshot's cache, so listing the tables
// of a schema and then describing each table costs one query per kind of
// metadata rather than one per table.
//
// Example:
//
//	factory := snapshot.NewFactory(generator.Default())
//	snap, err := factory.Create(ctx, db, snapshot.NewControl(db.Dialect()), nil)
package generator
