package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

const indent = "     "

var typeTitles = map[object.Type]string{
	object.TypeCatalog:          "Catalog",
	object.TypeSchema:           "Schema",
	object.TypeTable:            "Table",
	object.TypeView:             "View",
	object.TypeColumn:           "Column",
	object.TypePrimaryKey:       "Primary Key",
	object.TypeIndex:            "Index",
	object.TypeUniqueConstraint: "Unique Constraint",
	object.TypeForeignKey:       "Foreign Key",
	object.TypeSequence:         "Sequence",
}

// Write renders r to w. Sections appear for every compared type, in
// container-first order, with objects sorted by name.
//
// Example:
//
//	result, _ := diff.Compare(reference, target, diff.Options{})
//	if err := report.Write(os.Stdout, result); err != nil {
//		return err
//	}
func Write(w io.Writer, r *diff.Result) error {
	rw := &writer{w: w}
	ref, cmp := r.Reference.Metadata(), r.Comparison.Metadata()

	rw.printf("Reference Database: %s\n", describe(ref))
	rw.printf("Comparison Database: %s\n", describe(cmp))

	types := make([]string, 0, len(r.ComparedTypes()))
	for _, t := range r.ComparedTypes() {
		types = append(types, string(t))
	}
	rw.printf("Compared Types: %s\n", strings.Join(types, ", "))

	rw.field("Product Name", ref.ProductName, cmp.ProductName)
	rw.field("Product Version", ref.ProductVersion, cmp.ProductVersion)

	for _, t := range r.ComparedTypes() {
		rw.objects("Missing", t, r.Missing(t))
		rw.objects("Unexpected", t, r.Unexpected(t))
		rw.changes(t, r.Changed(t))
	}

	return errors.Wrap(rw.err, "failed to write report")
}

func describe(m snapshot.Metadata) string {
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(m.ProductName+" "+m.ProductVersion), m.Dialect)
}

// writer keeps the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) field(title, ref, cmp string) {
	if ref == cmp {
		w.printf("%s: EQUAL\n", title)
		return
	}

	w.printf("%s:\n", title)
	w.printf("%sReference:  %s\n", indent, ref)
	w.printf("%sComparison: %s\n", indent, cmp)
}

func (w *writer) objects(kind string, t object.Type, objs []object.Object) {
	if len(objs) == 0 {
		w.printf("%s %s(s): NONE\n", kind, typeTitles[t])
		return
	}

	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = fmt.Sprint(o)
	}
	slices.Sort(names)

	w.printf("%s %s(s):\n", kind, typeTitles[t])
	for _, name := range names {
		w.printf("%s%s\n", indent, name)
	}
}

func (w *writer) changes(t object.Type, changes []*diff.Change) {
	if len(changes) == 0 {
		w.printf("Changed %s(s): NONE\n", typeTitles[t])
		return
	}

	sorted := slices.Clone(changes)
	slices.SortFunc(sorted, func(a, b *diff.Change) int {
		return strings.Compare(fmt.Sprint(a.Reference), fmt.Sprint(b.Reference))
	})

	w.printf("Changed %s(s):\n", typeTitles[t])
	for _, c := range sorted {
		w.printf("%s%s\n", indent, c.Reference)
		for _, d := range c.Differences {
			w.printf("%s%s%s changed from '%v' to '%v'\n", indent, indent, d.Field, d.Reference, d.Comparison)
		}
	}
}
