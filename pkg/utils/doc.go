// Package utils provides small helpers shared by the dialect and generator
// packages.
//
// # Identifier Utilities (identifier.go)
//
// QuoteIdentifier and QuoteQualified wrap identifiers in a dialect's quote
// character, doubling embedded quotes:
//
//	utils.QuoteIdentifier(`"`, "order")           // "order"
//	utils.QuoteQualified("`", "analytics", "events") // `analytics`.`events`
//
// # Metadata Query Builder (sqlbuilder.go)
//
// QueryBuilder assembles metadata SELECT statements whose filters depend on
// the lookup (a whole schema vs. a single table), numbering placeholders in the
// dialect's style:
//
//	q, args := utils.NewQueryBuilder("SELECT * FROM pg_class c", utils.DollarPlaceholder).
//		Where("c.relnamespace = ?", ns).
//		WhereIf(table != "", "c.relname = ?", table).
//		OrderBy("c.relname").
//		Build()
//	// SELECT * FROM pg_class c WHERE c.relnamespace = $1 AND c.relname = $2 ORDER BY c.relname
//
// # Pointers (ptr.go)
//
// Ptr returns a pointer to any value, handy for optional struct fields.
package utils
