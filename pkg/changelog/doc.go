// Package changelog turns a diff.Result into an ordered list of abstract
// change operations grouped into change sets.
//
// Operations are ordered so that creates flow parent before child and drops
// flow child before parent:
//
//  1. create missing tables (single-column primary keys and NOT NULL inline)
//  2. add missing columns and alter changed ones
//  3. add primary keys that could not be inlined
//  4. drop unexpected primary keys of tables that are kept
//  5. drop foreign keys, add then drop unique constraints
//  6. seed data (optional)
//  7. add missing foreign keys
//  8. drop and add indexes, drop unexpected columns
//  9. sequences, views, then unexpected tables
//
// Change sets hold a single operation, except for data seeding where every
// row of a table goes into one change set. Write renders change sets as YAML
// for inspection; producing SQL from them is left to the consumer.
package changelog
