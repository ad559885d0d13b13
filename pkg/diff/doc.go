// Package diff compares two snapshots.
//
// Compare sorts every object of the types in scope into three disjoint sets:
// Missing (in the reference snapshot only), Unexpected (in the comparison
// snapshot only) and Changed (in both, with field differences). Objects are
// matched with the snapshots' identity rules, so dialect case sensitivity and
// default schema resolution apply the same way they do while snapshotting.
//
// Each object type compares a fixed list of fields, reported by Fields.
// Structural links (a table's column list, a key's backing index) are not
// compared; they surface as differences of the child objects themselves.
package diff
