package changelog

type (
	// Change is one structural change operation.
	Change interface {
		// ChangeType returns the operation name used when rendering.
		ChangeType() string
	}

	// ColumnConstraints are the constraints folded into a column definition.
	ColumnConstraints struct {
		PrimaryKey     bool   `yaml:"primaryKey,omitempty"`
		PrimaryKeyName string `yaml:"primaryKeyName,omitempty"`
		Nullable       *bool  `yaml:"nullable,omitempty"`
	}

	// ColumnDef describes a column to create.
	ColumnDef struct {
		Name          string             `yaml:"name"`
		Type          string             `yaml:"type"`
		DefaultValue  *string            `yaml:"defaultValue,omitempty"`
		AutoIncrement bool               `yaml:"autoIncrement,omitempty"`
		Remarks       string             `yaml:"remarks,omitempty"`
		Constraints   *ColumnConstraints `yaml:"constraints,omitempty"`
	}

	// ColumnDefs renders each definition under a "column" key.
	ColumnDefs []*ColumnDef

	// ColumnValue is one column of an inserted row.
	ColumnValue struct {
		Name  string `yaml:"name"`
		Value any    `yaml:"value"`
	}

	CreateTable struct {
		SchemaName string     `yaml:"schemaName,omitempty"`
		TableName  string     `yaml:"tableName"`
		Remarks    string     `yaml:"remarks,omitempty"`
		Columns    ColumnDefs `yaml:"columns"`
	}

	DropTable struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
	}

	SetTableRemarks struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
		Remarks    string `yaml:"remarks"`
	}

	AddColumn struct {
		SchemaName string     `yaml:"schemaName,omitempty"`
		TableName  string     `yaml:"tableName"`
		Columns    ColumnDefs `yaml:"columns"`
	}

	DropColumn struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
		ColumnName string `yaml:"columnName"`
	}

	ModifyDataType struct {
		SchemaName  string `yaml:"schemaName,omitempty"`
		TableName   string `yaml:"tableName"`
		ColumnName  string `yaml:"columnName"`
		NewDataType string `yaml:"newDataType"`
	}

	AddNotNullConstraint struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnName     string `yaml:"columnName"`
		ColumnDataType string `yaml:"columnDataType"`
	}

	DropNotNullConstraint struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnName     string `yaml:"columnName"`
		ColumnDataType string `yaml:"columnDataType"`
	}

	AddDefaultValue struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnName     string `yaml:"columnName"`
		ColumnDataType string `yaml:"columnDataType"`
		DefaultValue   string `yaml:"defaultValue"`
	}

	DropDefaultValue struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnName     string `yaml:"columnName"`
		ColumnDataType string `yaml:"columnDataType"`
	}

	AddAutoIncrement struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnName     string `yaml:"columnName"`
		ColumnDataType string `yaml:"columnDataType"`
	}

	SetColumnRemarks struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
		ColumnName string `yaml:"columnName"`
		Remarks    string `yaml:"remarks"`
	}

	AddPrimaryKey struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ColumnNames    string `yaml:"columnNames"`
		ConstraintName string `yaml:"constraintName,omitempty"`
	}

	DropPrimaryKey struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ConstraintName string `yaml:"constraintName,omitempty"`
	}

	AddForeignKeyConstraint struct {
		BaseTableSchemaName       string `yaml:"baseTableSchemaName,omitempty"`
		BaseTableName             string `yaml:"baseTableName"`
		BaseColumnNames           string `yaml:"baseColumnNames"`
		ReferencedTableSchemaName string `yaml:"referencedTableSchemaName,omitempty"`
		ReferencedTableName       string `yaml:"referencedTableName"`
		ReferencedColumnNames     string `yaml:"referencedColumnNames"`
		ConstraintName            string `yaml:"constraintName,omitempty"`
		OnUpdate                  string `yaml:"onUpdate,omitempty"`
		OnDelete                  string `yaml:"onDelete,omitempty"`
		Deferrable                bool   `yaml:"deferrable,omitempty"`
		InitiallyDeferred         bool   `yaml:"initiallyDeferred,omitempty"`
	}

	DropForeignKeyConstraint struct {
		BaseTableSchemaName string `yaml:"baseTableSchemaName,omitempty"`
		BaseTableName       string `yaml:"baseTableName"`
		ConstraintName      string `yaml:"constraintName"`
	}

	AddUniqueConstraint struct {
		SchemaName        string `yaml:"schemaName,omitempty"`
		TableName         string `yaml:"tableName"`
		ColumnNames       string `yaml:"columnNames"`
		ConstraintName    string `yaml:"constraintName,omitempty"`
		Deferrable        bool   `yaml:"deferrable,omitempty"`
		InitiallyDeferred bool   `yaml:"initiallyDeferred,omitempty"`
	}

	DropUniqueConstraint struct {
		SchemaName     string `yaml:"schemaName,omitempty"`
		TableName      string `yaml:"tableName"`
		ConstraintName string `yaml:"constraintName"`
	}

	CreateIndex struct {
		SchemaName string   `yaml:"schemaName,omitempty"`
		TableName  string   `yaml:"tableName"`
		IndexName  string   `yaml:"indexName"`
		Unique     bool     `yaml:"unique,omitempty"`
		Columns    []string `yaml:"columns"`
	}

	DropIndex struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
		IndexName  string `yaml:"indexName"`
	}

	CreateSequence struct {
		SchemaName   string `yaml:"schemaName,omitempty"`
		SequenceName string `yaml:"sequenceName"`
		StartValue   *int64 `yaml:"startValue,omitempty"`
		IncrementBy  *int64 `yaml:"incrementBy,omitempty"`
		MinValue     *int64 `yaml:"minValue,omitempty"`
		MaxValue     *int64 `yaml:"maxValue,omitempty"`
		Ordered      bool   `yaml:"ordered,omitempty"`
		Cycle        bool   `yaml:"cycle,omitempty"`
	}

	// AlterSequence carries only the attributes that changed.
	AlterSequence struct {
		SchemaName   string `yaml:"schemaName,omitempty"`
		SequenceName string `yaml:"sequenceName"`
		IncrementBy  *int64 `yaml:"incrementBy,omitempty"`
		MinValue     *int64 `yaml:"minValue,omitempty"`
		MaxValue     *int64 `yaml:"maxValue,omitempty"`
		Ordered      *bool  `yaml:"ordered,omitempty"`
		Cycle        *bool  `yaml:"cycle,omitempty"`
	}

	DropSequence struct {
		SchemaName   string `yaml:"schemaName,omitempty"`
		SequenceName string `yaml:"sequenceName"`
	}

	// CreateView replaces the view when Replace is set.
	CreateView struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		ViewName   string `yaml:"viewName"`
		Replace    bool   `yaml:"replaceIfExists,omitempty"`
		SelectSQL  string `yaml:"selectQuery"`
	}

	DropView struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		ViewName   string `yaml:"viewName"`
	}

	Insert struct {
		SchemaName string        `yaml:"schemaName,omitempty"`
		TableName  string        `yaml:"tableName"`
		Columns    []ColumnValue `yaml:"columns"`
	}

	// LoadData references a CSV file holding a table's rows.
	LoadData struct {
		SchemaName string `yaml:"schemaName,omitempty"`
		TableName  string `yaml:"tableName"`
		File       string `yaml:"file"`
		Separator  string `yaml:"separator"`
	}
)

func (c *CreateTable) ChangeType() string { return "createTable" }
func (c *DropTable) ChangeType() string { return "dropTable" }
func (c *SetTableRemarks) ChangeType() string { return "setTableRemarks" }
func (c *AddColumn) ChangeType() string { return "addColumn" }
func (c *DropColumn) ChangeType() string { return "dropColumn" }
func (c *ModifyDataType) ChangeType() string { return "modifyDataType" }
func (c *AddNotNullConstraint) ChangeType() string { return "addNotNullConstraint" }
func (c *DropNotNullConstraint) ChangeType() string { return "dropNotNullConstraint" }
func (c *AddDefaultValue) ChangeType() string { return "addDefaultValue" }
func (c *DropDefaultValue) ChangeType() string { return "dropDefaultValue" }
func (c *AddAutoIncrement) ChangeType() string { return "addAutoIncrement" }
func (c *SetColumnRemarks) ChangeType() string { return "setColumnRemarks" }
func (c *AddPrimaryKey) ChangeType() string { return "addPrimaryKey" }
func (c *DropPrimaryKey) ChangeType() string { return "dropPrimaryKey" }
func (c *AddForeignKeyConstraint) ChangeType() string { return "addForeignKeyConstraint" }
func (c *DropForeignKeyConstraint) ChangeType() string { return "dropForeignKeyConstraint" }
func (c *AddUniqueConstraint) ChangeType() string { return "addUniqueConstraint" }
func (c *DropUniqueConstraint) ChangeType() string { return "dropUniqueConstraint" }
func (c *CreateIndex) ChangeType() string { return "createIndex" }
func (c *DropIndex) ChangeType() string { return "dropIndex" }
func (c *CreateSequence) ChangeType() string { return "createSequence" }
func (c *AlterSequence) ChangeType() string { return "alterSequence" }
func (c *DropSequence) ChangeType() string { return "dropSequence" }
func (c *CreateView) ChangeType() string { return "createView" }
func (c *DropView) ChangeType() string { return "dropView" }
func (c *Insert) ChangeType() string { return "insert" }
func (c *LoadData) ChangeType() string { return "loadData" }

// MarshalYAML wraps each definition as {column: {...}}.
func (c ColumnDefs) MarshalYAML() (any, error) {
	out := make([]map[string]*ColumnDef, len(c))
	for i, def := range c {
		out[i] = map[string]*ColumnDef{"column": def}
	}
	return out, nil
}
