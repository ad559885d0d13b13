package changelog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/consts"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// csvNull marks a null value in a data file.
const csvNull = "NULL"

// ErrNoDatabase is returned when data is requested from a snapshot that was
// not taken from a live database.
var ErrNoDatabase = errors.New("snapshot has no database")

func (p *plan) addData(ctx context.Context) error {
	if !p.opts.IncludeData {
		return nil
	}

	db := p.result.Reference.Database()
	if db == nil {
		return errors.Wrap(ErrNoDatabase, "failed to read reference data")
	}

	for _, o := range p.keep(p.result.Reference.All(object.TypeTable)) {
		t := o.(*object.Table)

		rows, err := database.TableData(ctx, db, t)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}

		if p.opts.DataDir == "" {
			p.emitSet(p.inserts(t, rows)...)
			continue
		}

		change, err := p.loadData(t, rows)
		if err != nil {
			return err
		}
		p.emitSet(change)
	}

	return nil
}

func (p *plan) inserts(t *object.Table, rows []database.Row) []Change {
	changes := make([]Change, len(rows))
	for i, row := range rows {
		ins := &Insert{SchemaName: p.schemaName(t), TableName: t.Name}
		for _, c := range t.Columns {
			ins.Columns = append(ins.Columns, ColumnValue{Name: c.Name, Value: dataValue(row[strings.ToLower(c.Name)])})
		}
		changes[i] = ins
	}
	return changes
}

// loadData writes rows to <DataDir>/<schema>.<table>.csv.
func (p *plan) loadData(t *object.Table, rows []database.Row) (Change, error) {
	if err := os.MkdirAll(p.opts.DataDir, consts.ModeDir); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", p.opts.DataDir)
	}

	schema := p.schemaName(t)
	name := t.Name + ".csv"
	if schema != "" {
		name = schema + "." + name
	}
	path := filepath.Join(p.opts.DataDir, name)

	if err := writeCSV(path, t, rows); err != nil {
		return nil, err
	}

	return &LoadData{SchemaName: schema, TableName: t.Name, File: path, Separator: ","}, nil
}

func writeCSV(path string, t *object.Table, rows []database.Row) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to create data file %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write data file %s", path)
	}

	for _, row := range rows {
		record := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			key := strings.ToLower(c.Name)
			if !row.Has(key) {
				record[i] = csvNull
				continue
			}
			record[i] = row.String(key)
		}

		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write data file %s", path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "failed to write data file %s", path)
	}

	return errors.Wrapf(f.Close(), "failed to close data file %s", path)
}

// dataValue converts driver values into something YAML renders readably.
func dataValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
