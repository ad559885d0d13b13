package filter

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

type (
	expression struct {
		Rules []*ruleExpr `parser:"@@ ( ',' @@ )*"`
	}

	ruleExpr struct {
		Type    string   `parser:"@Type?"`
		Pattern []string `parser:"( @Group | @Chunk )+"`
	}
)

var (
	filterLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Type", Pattern: `\s*(?i:` + typeAlternation() + `)\s*:`},
		{Name: "Group", Pattern: `\{[^}]*\}|\([^)]*\)|\[[^\]]*\]`},
		{Name: "Punct", Pattern: `,`},
		{Name: "Chunk", Pattern: `[^,{(\[]+`},
	})

	parser = participle.MustBuild[expression](
		participle.Lexer(filterLexer),
	)
)

func typeAlternation() string {
	names := make([]string, 0, len(object.Types()))
	for _, t := range object.Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, "|")
}

func (r *ruleExpr) typeName() string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(r.Type), ":"))
}

func (r *ruleExpr) pattern() string {
	return strings.TrimSpace(strings.Join(r.Pattern, ""))
}
