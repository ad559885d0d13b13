package snapshot

import (
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// relate links objects that refer to each other once the snapshot is
// complete: foreign keys point at the stored referenced table, and indexes
// that back a key or constraint are tagged with it.
func (s *Snapshot) relate() {
	for _, fk := range AllOf[*object.ForeignKey](s) {
		s.resolveReference(fk)
	}

	for _, t := range AllOf[*object.Table](s) {
		if pk := t.PrimaryKey; pk != nil {
			if idx := s.backingIndex(t, pk.Name, pk.Columns); idx != nil {
				idx.Associate(object.TypePrimaryKey)
				pk.BackingIndex = idx
			}
		}

		for _, uc := range t.UniqueConstraints {
			if idx := s.backingIndex(t, uc.Name, uc.Columns); idx != nil {
				idx.Associate(object.TypeUniqueConstraint)
				uc.BackingIndex = idx
			}
		}

		for _, fk := range t.ForeignKeys {
			if idx := s.namedIndex(t, fk.Name); idx != nil {
				idx.Associate(object.TypeForeignKey)
				fk.BackingIndex = idx
			}
		}
	}
}

func (s *Snapshot) resolveReference(fk *object.ForeignKey) {
	if fk.ReferencedTable == nil {
		return
	}

	found, err := s.Get(fk.ReferencedTable)
	if err != nil || found == nil {
		return
	}

	ref := found.(*object.Table)
	fk.ReferencedTable = ref
	if len(fk.ReferencedColumns) == 0 && ref.PrimaryKey != nil {
		fk.ReferencedColumns = append([]string(nil), ref.PrimaryKey.Columns...)
	}
}

// backingIndex finds the index enforcing a key: the index of the same name,
// or a unique index over exactly the key's columns.
func (s *Snapshot) backingIndex(t *object.Table, name string, cols []string) *object.Index {
	if idx := s.namedIndex(t, name); idx != nil {
		return idx
	}

	for _, idx := range t.Indexes {
		if idx.Unique && len(cols) > 0 && s.cmp.ColumnsEqual(idx.Columns, cols) {
			return idx
		}
	}

	return nil
}

func (s *Snapshot) namedIndex(t *object.Table, name string) *object.Index {
	if name == "" {
		return nil
	}

	for _, idx := range t.Indexes {
		if s.dialect.NamesEqual(idx.Name, name) {
			return idx
		}
	}

	return nil
}
