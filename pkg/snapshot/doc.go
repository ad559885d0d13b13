// Package snapshot holds point-in-time models of a database's structure and
// the machinery that populates them.
//
// A Snapshot is filled by Include, which runs the generator chain for an
// example object's type. Generators are registered in a Registry and ordered
// per (object type, dialect) by priority; a dialect-specific generator can
// replace a generic one by name, and "additional" generators extend the object
// another generator produced (a table generator's result gains its columns,
// keys and indexes this way). Each object is stored once: Include and Adopt
// return the already stored object when an identical one exists, as decided by
// the identity package.
//
// Factory.Create is the entry point for a live database:
//
//	factory := snapshot.NewFactory(generator.Default())
//	snap, err := factory.Create(ctx, db, snapshot.NewControl(db.Dialect()))
//	if err != nil {
//		return err
//	}
//
//	for _, t := range snapshot.AllOf[*object.Table](snap) {
//		fmt.Println(t.Name)
//	}
//
// Snapshots are not safe for concurrent use. Independent snapshots (of the
// reference and target databases, say) can be built concurrently from the
// same Registry.
package snapshot
