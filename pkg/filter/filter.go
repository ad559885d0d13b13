package filter

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// ErrInvalidFilter is returned for expressions that cannot be parsed.
var ErrInvalidFilter = errors.New("invalid filter expression")

// Include and Exclude select what a matching rule means.
const (
	Include Mode = iota
	Exclude
)

type (
	// Mode is the filter mode.
	Mode int

	// Rule is a single parsed filter rule. An empty Type matches every type.
	Rule struct {
		Type    object.Type
		Pattern *regexp.Regexp
	}

	// Filter decides which objects take part in a snapshot or diff. A nil
	// *Filter includes everything.
	Filter struct {
		mode  Mode
		expr  string
		rules []Rule
	}
)

// String returns "include" or "exclude".
func (m Mode) String() string {
	if m == Exclude {
		return "exclude"
	}
	return "include"
}

// Parse parses a comma-separated filter expression.
//
// Example:
//
//	f, err := filter.Parse("table:users, orders_.*", filter.Include)
func Parse(expr string, mode Mode) (*Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.Wrap(ErrInvalidFilter, "empty expression")
	}

	parsed, err := parser.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%q: %v", expr, err)
	}

	f := &Filter{mode: mode, expr: expr}
	for _, r := range parsed.Rules {
		rule, err := compileRule(r)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", expr)
		}
		f.rules = append(f.rules, rule)
	}

	return f, nil
}

func compileRule(r *ruleExpr) (Rule, error) {
	var rule Rule

	if name := r.typeName(); name != "" {
		t, err := object.ParseType(name)
		if err != nil {
			return rule, errors.Wrap(ErrInvalidFilter, err.Error())
		}
		rule.Type = t
	}

	pattern := r.pattern()
	if pattern == "" {
		return rule, errors.Wrap(ErrInvalidFilter, "empty pattern")
	}

	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)$`)
	if err != nil {
		return rule, errors.Wrapf(ErrInvalidFilter, "pattern %q: %v", pattern, err)
	}
	rule.Pattern = re

	return rule, nil
}

// Mode returns the filter mode.
func (f *Filter) Mode() Mode {
	if f == nil {
		return Include
	}
	return f.mode
}

// Rules returns the parsed rules.
func (f *Filter) Rules() []Rule {
	if f == nil {
		return nil
	}
	return slices.Clone(f.rules)
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.mode.String() + ":" + f.expr
}

// Mentions reports whether any rule names t explicitly.
func (f *Filter) Mentions(t object.Type) bool {
	if f == nil {
		return false
	}

	return slices.ContainsFunc(f.rules, func(r Rule) bool {
		return r.Type == t
	})
}

// Include reports whether o passes the filter. Catalogs and schemas always
// pass unless a rule names their type, so that scoping a snapshot to some
// tables still visits the containers those tables live in.
func (f *Filter) Include(o object.Object) bool {
	if f == nil || o == nil {
		return true
	}

	if t := o.ObjectType(); (t == object.TypeCatalog || t == object.TypeSchema) && !f.Mentions(t) {
		return true
	}

	matched := slices.ContainsFunc(f.rules, func(r Rule) bool {
		return r.matches(o)
	})

	if f.mode == Exclude {
		return !matched
	}
	return matched
}

func (r Rule) matches(o object.Object) bool {
	if r.Type == "" || r.Type == o.ObjectType() {
		if r.Pattern.MatchString(o.GetName()) {
			return true
		}
	}

	if owner := object.RelationOf(o); owner != nil {
		return r.matches(owner)
	}

	return false
}
