package utils

import "strings"

// QuoteIdentifier wraps name in quote, doubling any quote characters inside
// it. An empty name stays empty.
//
// Examples:
//   - (`"`, "users") -> `"users"`
//   - ("`", "my table") -> "`my table`"
//   - (`"`, `odd"name`) -> `"odd""name"`
func QuoteIdentifier(quote, name string) string {
	if name == "" {
		return ""
	}
	if quote == "" {
		return name
	}

	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// QuoteQualified quotes each non-empty part and joins them with dots, so a
// missing schema simply drops out of the qualified name.
//
// Examples:
//   - (`"`, "public", "users") -> `"public"."users"`
//   - ("`", "", "events") -> "`events`"
func QuoteQualified(quote string, parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			quoted = append(quoted, QuoteIdentifier(quote, p))
		}
	}

	return strings.Join(quoted, ".")
}
