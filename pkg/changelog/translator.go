package changelog

import (
	"context"
	"fmt"
	"log/slog"
	"os/user"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/consts"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// ErrUnrecognizedDifference is returned when a changed object carries a
// difference no operation exists for.
var ErrUnrecognizedDifference = errors.New("unrecognized difference")

// handledFields lists the fields of diff.Fields the translator turns into
// operations.
var handledFields = map[object.Type][]string{
	object.TypeTable:            {diff.FieldRemarks},
	object.TypeView:             {diff.FieldDefinition},
	object.TypeColumn:           {diff.FieldType, diff.FieldNullable, diff.FieldDefaultValue, diff.FieldAutoIncrement, diff.FieldRemarks},
	object.TypePrimaryKey:       {diff.FieldColumns},
	object.TypeIndex:            {diff.FieldColumns, diff.FieldUnique},
	object.TypeUniqueConstraint: {diff.FieldDeferrable, diff.FieldInitiallyDeferred},
	object.TypeForeignKey:       {diff.FieldUpdateRule, diff.FieldDeleteRule, diff.FieldDeferrable, diff.FieldInitiallyDeferred},
	object.TypeSequence:         {diff.FieldIncrementBy, diff.FieldMinValue, diff.FieldMaxValue, diff.FieldOrdered, diff.FieldCycle},
}

type (
	// Options configures a Translator. Zero values get defaults.
	Options struct {
		// IDRoot prefixes change set ids. Defaults to the current Unix time in
		// milliseconds.
		IDRoot string

		// Author is set on every change set. Defaults to DefaultAuthor().
		Author string

		// IncludeData adds the reference database's rows.
		IncludeData bool

		// DataDir, when set with IncludeData, receives one CSV file per table
		// referenced by a loadData operation instead of inline inserts.
		DataDir string

		// BookkeepingTables are never translated. Defaults to
		// consts.BookkeepingTables.
		BookkeepingTables []string
	}

	// Translator turns diff results into change sets.
	Translator struct {
		opts Options
	}
)

// New creates a Translator.
func New(opts Options) *Translator {
	if opts.IDRoot == "" {
		opts.IDRoot = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if opts.Author == "" {
		opts.Author = DefaultAuthor()
	}
	if opts.BookkeepingTables == nil {
		opts.BookkeepingTables = consts.BookkeepingTables
	}

	return &Translator{opts: opts}
}

// DefaultAuthor names the invoking user, falling back to
// consts.DefaultAuthor.
func DefaultAuthor() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return consts.DefaultAuthor
	}
	return u.Username + consts.GeneratedAuthorSuffix
}

// Handles reports whether differences in field are translated for objects
// of type t.
func Handles(t object.Type, field string) bool {
	return slices.Contains(handledFields[t], field)
}

// Translate orders the differences in r into change sets. The reference
// snapshot describes the desired state.
func (t *Translator) Translate(ctx context.Context, r *diff.Result) ([]*ChangeSet, error) {
	for _, typ := range object.Types() {
		for _, c := range r.Changed(typ) {
			if err := checkDifferences(typ, c); err != nil {
				return nil, err
			}
		}
	}

	p := newPlan(t.opts, r)
	steps := []func() error{
		p.createTables,
		p.alterColumns,
		p.addPrimaryKeys,
		p.dropPrimaryKeys,
		p.replaceConstraints,
		func() error { return p.addData(ctx) },
		p.addForeignKeys,
		p.replaceIndexes,
		p.finish,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	slog.Debug("Translated differences", "changeSets", len(p.sets))
	return p.sets, nil
}

func checkDifferences(t object.Type, c *diff.Change) error {
	for _, d := range c.Differences {
		if !Handles(t, d.Field) {
			return errors.Wrapf(ErrUnrecognizedDifference, "%s %q: %s", t, c.Reference.GetName(), d.Field)
		}
	}
	return nil
}

// plan accumulates change sets for one Translate call.
type plan struct {
	opts   Options
	result *diff.Result
	sets   []*ChangeSet
	seq    int

	created []object.Object
	dropped []object.Object
	inlined []object.Object
}

func newPlan(opts Options, r *diff.Result) *plan {
	p := &plan{opts: opts, result: r}
	p.created = p.missing(object.TypeTable)
	p.dropped = p.unexpected(object.TypeTable)
	return p
}

// emit wraps each change in its own change set.
func (p *plan) emit(changes ...Change) {
	for _, c := range changes {
		p.emitSet(c)
	}
}

func (p *plan) emitSet(changes ...Change) {
	if len(changes) == 0 {
		return
	}

	p.seq++
	p.sets = append(p.sets, &ChangeSet{
		ID:      fmt.Sprintf("%s-%d", p.opts.IDRoot, p.seq),
		Author:  p.opts.Author,
		Changes: changes,
	})
}

func (p *plan) missing(t object.Type) []object.Object {
	return p.keep(p.result.Missing(t))
}

func (p *plan) unexpected(t object.Type) []object.Object {
	return p.keep(p.result.Unexpected(t))
}

func (p *plan) changed(t object.Type) []*diff.Change {
	var out []*diff.Change
	for _, c := range p.result.Changed(t) {
		if !p.isBookkeeping(c.Reference) {
			out = append(out, c)
		}
	}
	return out
}

func (p *plan) keep(objs []object.Object) []object.Object {
	var out []object.Object
	for _, o := range objs {
		if !p.isBookkeeping(o) {
			out = append(out, o)
		}
	}
	return out
}

func (p *plan) isBookkeeping(o object.Object) bool {
	name := o.GetName()
	if _, ok := o.(*object.Table); !ok {
		r := object.RelationOf(o)
		if r == nil {
			return false
		}
		name = r.GetName()
	}

	return slices.ContainsFunc(p.opts.BookkeepingTables, func(s string) bool {
		return strings.EqualFold(s, name)
	})
}

// isCreated reports whether t is created by this plan.
func (p *plan) isCreated(t *object.Table) bool {
	return t != nil && slices.ContainsFunc(p.created, func(o object.Object) bool {
		return p.result.Reference.Comparator().IsSameObject(o, t)
	})
}

// isDropped reports whether t is dropped by this plan.
func (p *plan) isDropped(t *object.Table) bool {
	return t != nil && slices.ContainsFunc(p.dropped, func(o object.Object) bool {
		return p.result.Comparison.Comparator().IsSameObject(o, t)
	})
}

func (p *plan) isInlined(pk *object.PrimaryKey) bool {
	return slices.Contains(p.inlined, object.Object(pk))
}

// schemaName returns the schema to qualify o with, or "" for the default
// schema.
func (p *plan) schemaName(o object.Object) string {
	s := object.SchemaOf(o)
	if p.result.Reference.Comparator().IsDefaultSchema(s) {
		return ""
	}
	return s.Name
}

// orphaned logs and reports constraint rows that lost their table.
func orphaned(o object.Object, t *object.Table) bool {
	if t != nil {
		return false
	}

	slog.Warn("Skipping object without a table", "type", o.ObjectType(), "name", o.GetName(), "reason", "missing back-reference")
	return true
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
