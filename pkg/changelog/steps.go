package changelog

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/utils"
)

func (p *plan) createTables() error {
	cmp := p.result.Reference.Comparator()
	missingPKs := p.missing(object.TypePrimaryKey)

	for _, o := range p.created {
		t := o.(*object.Table)
		ct := &CreateTable{SchemaName: p.schemaName(t), TableName: t.Name, Remarks: t.Remarks}

		var inline *object.PrimaryKey
		if pk := t.PrimaryKey; pk != nil && len(pk.Columns) == 1 {
			idx := slices.IndexFunc(missingPKs, func(m object.Object) bool { return cmp.IsSameObject(m, pk) })
			if idx >= 0 {
				inline = missingPKs[idx].(*object.PrimaryKey)
				p.inlined = append(p.inlined, inline)
			}
		}

		for _, c := range t.Columns {
			def := columnDef(c)
			if inline != nil && p.result.Reference.Dialect().NamesEqual(c.Name, inline.Columns[0]) {
				if def.Constraints == nil {
					def.Constraints = &ColumnConstraints{}
				}
				def.Constraints.PrimaryKey = true
				def.Constraints.PrimaryKeyName = inline.Name
			}
			ct.Columns = append(ct.Columns, def)
		}

		p.emit(ct)
	}

	return nil
}

func (p *plan) alterColumns() error {
	for _, c := range p.changed(object.TypeTable) {
		t := c.Reference.(*object.Table)
		p.emit(&SetTableRemarks{SchemaName: p.schemaName(t), TableName: t.Name, Remarks: t.Remarks})
	}

	for _, o := range p.missing(object.TypeColumn) {
		col := o.(*object.Column)
		t := col.Table()
		if t == nil || p.isCreated(t) {
			continue
		}

		p.emit(&AddColumn{SchemaName: p.schemaName(t), TableName: t.Name, Columns: ColumnDefs{columnDef(col)}})
	}

	for _, c := range p.changed(object.TypeColumn) {
		col := c.Reference.(*object.Column)
		if col.Table() == nil {
			continue // views are replaced whole
		}

		for _, d := range c.Differences {
			change, err := p.alterColumn(col, d)
			if err != nil {
				return err
			}
			if change != nil {
				p.emit(change)
			}
		}
	}

	return nil
}

func (p *plan) alterColumn(col *object.Column, d diff.Difference) (Change, error) {
	t := col.Table()
	schema := p.schemaName(t)
	dataType := col.Type.String()

	switch d.Field {
	case diff.FieldType:
		return &ModifyDataType{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, NewDataType: dataType}, nil
	case diff.FieldNullable:
		if col.Nullable {
			return &DropNotNullConstraint{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, ColumnDataType: dataType}, nil
		}
		return &AddNotNullConstraint{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, ColumnDataType: dataType}, nil
	case diff.FieldDefaultValue:
		if col.DefaultValue == nil {
			return &DropDefaultValue{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, ColumnDataType: dataType}, nil
		}
		return &AddDefaultValue{
			SchemaName:     schema,
			TableName:      t.Name,
			ColumnName:     col.Name,
			ColumnDataType: dataType,
			DefaultValue:   *col.DefaultValue,
		}, nil
	case diff.FieldAutoIncrement:
		if !col.AutoIncrement {
			slog.Warn("Skipping auto-increment removal", "column", col.String(), "reason", "no operation removes auto-increment")
			return nil, nil
		}
		return &AddAutoIncrement{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, ColumnDataType: dataType}, nil
	case diff.FieldRemarks:
		return &SetColumnRemarks{SchemaName: schema, TableName: t.Name, ColumnName: col.Name, Remarks: col.Remarks}, nil
	}

	return nil, errors.Wrapf(ErrUnrecognizedDifference, "column %q: %s", col.Name, d.Field)
}

func (p *plan) addPrimaryKeys() error {
	for _, c := range p.changed(object.TypePrimaryKey) {
		ref, cmp := c.Reference.(*object.PrimaryKey), c.Comparison.(*object.PrimaryKey)
		if orphaned(ref, ref.Table) || orphaned(cmp, cmp.Table) {
			continue
		}
		p.emit(p.dropPrimaryKey(cmp), p.addPrimaryKey(ref))
	}

	for _, o := range p.missing(object.TypePrimaryKey) {
		pk := o.(*object.PrimaryKey)
		if p.isInlined(pk) || orphaned(pk, pk.Table) {
			continue
		}
		p.emit(p.addPrimaryKey(pk))
	}

	return nil
}

func (p *plan) dropPrimaryKeys() error {
	for _, o := range p.unexpected(object.TypePrimaryKey) {
		pk := o.(*object.PrimaryKey)
		if orphaned(pk, pk.Table) || p.isDropped(pk.Table) {
			continue
		}
		p.emit(p.dropPrimaryKey(pk))
	}

	return nil
}

func (p *plan) replaceConstraints() error {
	for _, o := range p.unexpected(object.TypeForeignKey) {
		fk := o.(*object.ForeignKey)
		if change := p.dropForeignKey(fk); change != nil {
			p.emit(change)
		}
	}

	for _, c := range p.changed(object.TypeForeignKey) {
		if change := p.dropForeignKey(c.Comparison.(*object.ForeignKey)); change != nil {
			p.emit(change)
		}
	}

	for _, o := range p.missing(object.TypeUniqueConstraint) {
		uc := o.(*object.UniqueConstraint)
		if orphaned(uc, uc.Table) {
			continue
		}
		p.emit(p.addUniqueConstraint(uc))
	}

	for _, c := range p.changed(object.TypeUniqueConstraint) {
		ref, cmp := c.Reference.(*object.UniqueConstraint), c.Comparison.(*object.UniqueConstraint)
		if orphaned(ref, ref.Table) || orphaned(cmp, cmp.Table) {
			continue
		}
		p.emit(p.dropUniqueConstraint(cmp), p.addUniqueConstraint(ref))
	}

	for _, o := range p.unexpected(object.TypeUniqueConstraint) {
		uc := o.(*object.UniqueConstraint)
		if orphaned(uc, uc.Table) || p.isDropped(uc.Table) {
			continue
		}
		p.emit(p.dropUniqueConstraint(uc))
	}

	return nil
}

func (p *plan) addForeignKeys() error {
	var fks []*object.ForeignKey
	for _, o := range p.missing(object.TypeForeignKey) {
		fks = append(fks, o.(*object.ForeignKey))
	}
	for _, c := range p.changed(object.TypeForeignKey) {
		fks = append(fks, c.Reference.(*object.ForeignKey))
	}

	for _, fk := range fks {
		if orphaned(fk, fk.Table) || orphaned(fk, fk.ReferencedTable) {
			continue
		}

		p.emit(&AddForeignKeyConstraint{
			BaseTableSchemaName:       p.schemaName(fk.Table),
			BaseTableName:             fk.Table.Name,
			BaseColumnNames:           joinColumns(fk.Columns),
			ReferencedTableSchemaName: p.schemaName(fk.ReferencedTable),
			ReferencedTableName:       fk.ReferencedTable.Name,
			ReferencedColumnNames:     joinColumns(fk.ReferencedColumns),
			ConstraintName:            fk.Name,
			OnUpdate:                  string(fk.UpdateRule),
			OnDelete:                  string(fk.DeleteRule),
			Deferrable:                fk.Deferrable,
			InitiallyDeferred:         fk.InitiallyDeferred,
		})
	}

	return nil
}

func (p *plan) replaceIndexes() error {
	for _, o := range p.unexpected(object.TypeIndex) {
		idx := o.(*object.Index)
		if orphaned(idx, idx.Table) || idx.IsBacking() || p.isDropped(idx.Table) {
			continue
		}
		p.emit(p.dropIndex(idx))
	}

	for _, c := range p.changed(object.TypeIndex) {
		ref, cmp := c.Reference.(*object.Index), c.Comparison.(*object.Index)
		if orphaned(ref, ref.Table) || orphaned(cmp, cmp.Table) || ref.IsBacking() {
			continue
		}
		p.emit(p.dropIndex(cmp), p.createIndex(ref))
	}

	for _, o := range p.missing(object.TypeIndex) {
		idx := o.(*object.Index)
		if orphaned(idx, idx.Table) || idx.IsBacking() {
			continue
		}
		p.emit(p.createIndex(idx))
	}

	for _, o := range p.unexpected(object.TypeColumn) {
		col := o.(*object.Column)
		t := col.Table()
		if t == nil || p.isDropped(t) {
			continue
		}
		p.emit(&DropColumn{SchemaName: p.schemaName(t), TableName: t.Name, ColumnName: col.Name})
	}

	return nil
}

// finish handles sequences, views and finally unexpected tables.
func (p *plan) finish() error {
	for _, o := range p.missing(object.TypeSequence) {
		s := o.(*object.Sequence)
		p.emit(&CreateSequence{
			SchemaName:   p.schemaName(s),
			SequenceName: s.Name,
			StartValue:   s.StartValue,
			IncrementBy:  s.IncrementBy,
			MinValue:     s.MinValue,
			MaxValue:     s.MaxValue,
			Ordered:      s.Ordered,
			Cycle:        s.WillCycle,
		})
	}

	for _, c := range p.changed(object.TypeSequence) {
		p.emit(alterSequence(p.schemaName(c.Reference), c))
	}

	for _, o := range p.unexpected(object.TypeSequence) {
		p.emit(&DropSequence{SchemaName: p.schemaName(o), SequenceName: o.GetName()})
	}

	for _, o := range p.missing(object.TypeView) {
		p.emit(p.createView(o.(*object.View), false))
	}

	for _, c := range p.changed(object.TypeView) {
		p.emit(p.createView(c.Reference.(*object.View), true))
	}

	for _, o := range p.unexpected(object.TypeView) {
		p.emit(&DropView{SchemaName: p.schemaName(o), ViewName: o.GetName()})
	}

	for _, o := range p.dropped {
		p.emit(&DropTable{SchemaName: p.schemaName(o), TableName: o.GetName()})
	}

	return nil
}

func alterSequence(schema string, c *diff.Change) *AlterSequence {
	s := c.Reference.(*object.Sequence)
	as := &AlterSequence{SchemaName: schema, SequenceName: s.Name}

	for _, d := range c.Differences {
		switch d.Field {
		case diff.FieldIncrementBy:
			as.IncrementBy = s.IncrementBy
		case diff.FieldMinValue:
			as.MinValue = s.MinValue
		case diff.FieldMaxValue:
			as.MaxValue = s.MaxValue
		case diff.FieldOrdered:
			as.Ordered = utils.Ptr(s.Ordered)
		case diff.FieldCycle:
			as.Cycle = utils.Ptr(s.WillCycle)
		}
	}

	return as
}

func columnDef(c *object.Column) *ColumnDef {
	def := &ColumnDef{
		Name:          c.Name,
		Type:          c.Type.String(),
		DefaultValue:  c.DefaultValue,
		AutoIncrement: c.AutoIncrement,
		Remarks:       c.Remarks,
	}
	if !c.Nullable {
		def.Constraints = &ColumnConstraints{Nullable: utils.Ptr(false)}
	}
	return def
}

func (p *plan) addPrimaryKey(pk *object.PrimaryKey) Change {
	return &AddPrimaryKey{
		SchemaName:     p.schemaName(pk.Table),
		TableName:      pk.Table.Name,
		ColumnNames:    joinColumns(pk.Columns),
		ConstraintName: pk.Name,
	}
}

func (p *plan) dropPrimaryKey(pk *object.PrimaryKey) Change {
	return &DropPrimaryKey{SchemaName: p.schemaName(pk.Table), TableName: pk.Table.Name, ConstraintName: pk.Name}
}

func (p *plan) dropForeignKey(fk *object.ForeignKey) Change {
	if orphaned(fk, fk.Table) {
		return nil
	}
	if fk.Name == "" {
		slog.Warn("Skipping unnamed foreign key", "table", fk.Table.String(), "reason", "cannot drop a constraint without a name")
		return nil
	}

	return &DropForeignKeyConstraint{BaseTableSchemaName: p.schemaName(fk.Table), BaseTableName: fk.Table.Name, ConstraintName: fk.Name}
}

func (p *plan) addUniqueConstraint(uc *object.UniqueConstraint) Change {
	name := uc.Name
	if p.result.Reference.Dialect().IsSynthesizedName(name) {
		name = ""
	}

	return &AddUniqueConstraint{
		SchemaName:        p.schemaName(uc.Table),
		TableName:         uc.Table.Name,
		ColumnNames:       joinColumns(uc.Columns),
		ConstraintName:    name,
		Deferrable:        uc.Deferrable,
		InitiallyDeferred: uc.InitiallyDeferred,
	}
}

func (p *plan) dropUniqueConstraint(uc *object.UniqueConstraint) Change {
	return &DropUniqueConstraint{SchemaName: p.schemaName(uc.Table), TableName: uc.Table.Name, ConstraintName: uc.Name}
}

func (p *plan) createIndex(idx *object.Index) Change {
	return &CreateIndex{
		SchemaName: p.schemaName(idx.Table),
		TableName:  idx.Table.Name,
		IndexName:  idx.Name,
		Unique:     idx.Unique,
		Columns:    idx.Columns,
	}
}

func (p *plan) dropIndex(idx *object.Index) Change {
	return &DropIndex{SchemaName: p.schemaName(idx.Table), TableName: idx.Table.Name, IndexName: idx.Name}
}

func (p *plan) createView(v *object.View, replace bool) Change {
	return &CreateView{SchemaName: p.schemaName(v), ViewName: v.Name, Replace: replace, SelectSQL: v.Definition}
}
