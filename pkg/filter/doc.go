// Package filter implements object change filters: comma-separated rules
// that scope snapshots and diffs by object type and name.
//
// A rule is either a bare regular expression, matched against the name of any
// object, or a type-qualified expression such as "table:order_.*". Patterns
// must match the whole name and ignore case. Commas inside {}, () or [] are
// part of the pattern, so "table:t_\d{1,3}" is a single rule.
//
// Child objects (columns, indexes, keys and constraints) whose own name does
// not match are tested again through their owning table or view, so
// "table:users" in include mode keeps the columns of users as well.
//
// Example:
//
//	f, err := filter.Parse("table:audit_.*, view:.*_v", filter.Exclude)
//	if err != nil {
//		return err
//	}
//
//	if f.Include(tbl) {
//		// ...
//	}
package filter
