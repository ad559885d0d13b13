// Package cache implements the metadata row cache generators read through.
//
// A snapshot asks the same metadata question many times in a tight loop
// ("columns of table T" for every table of a schema). The cache answers those
// lookups while keeping round trips low:
//
//   - Rows are partitioned by a schema key derived from the lookup's catalog
//     and schema according to the dialect's capability flags ("all" when the
//     dialect has neither).
//   - Every fetched row is filed under all null-permutations of its key
//     parameters, so a row fetched for (schema, table, column) also answers
//     later (schema, table, null) or (null, schema, null) lookups.
//   - The first few lookups for a schema are narrow ("fast") fetches. Once
//     the threshold is reached the next miss triggers a single bulk fetch for
//     the whole schema, after which misses are true absences and never reach
//     the database again.
//
// Caches are not safe for concurrent use. Every snapshot owns its own Store.
package cache
