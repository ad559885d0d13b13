// Package identity decides whether two objects describe the same database
// object.
//
// Identity is structural: a table is its (catalog, schema, name), a column is
// its relation plus name, a foreign key is its base and referenced tables and
// column lists (foreign key names are often generated and not stable). Name
// comparison follows the dialect's case sensitivity, and a missing catalog or
// schema resolves to the dialect default before anything is compared.
//
// Hash returns the bucket keys an object is filed under. Keys are always
// lower-case so case-insensitive matches land in the same bucket; IsSameObject
// makes the authoritative decision inside a bucket. Every pair of objects
// IsSameObject accepts shares at least one hash key.
package identity
