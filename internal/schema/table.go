package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// TimestampColumn is the creation column every dated table carries.
const TimestampColumn = "timestamp"

// Table is an ordered set of columns. Besides its own columns it keeps a map
// from root source column to own column, so a column of another table that
// this table references can be used wherever the local copy is expected.
type Table struct {
	name     string
	columns  []*Column
	byName   map[string]*Column
	bySource map[*Column]*Column

	stamp *Column
	now   func() time.Time
}

func NewTable(name string) *Table {
	return &Table{
		name:     name,
		byName:   make(map[string]*Column),
		bySource: make(map[*Column]*Column),
	}
}

// NewDatedTable creates a table whose rows are stamped with their creation
// time (unix seconds) on every insert.
func NewDatedTable(name string) *Table {
	t := NewTable(name)
	t.stamp = t.Define(TimestampColumn, Integer)
	t.now = time.Now
	return t
}

func (t *Table) Name() string  { return t.name }
func (t *Table) Ident() string { return Quote(t.name) }

func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Lookup returns the table's own column with the given name.
func (t *Table) Lookup(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Stamp returns the timestamp column and the value to write into it, or nil
// when the table is not dated.
func (t *Table) Stamp() (*Column, int64) {
	if t.stamp == nil {
		return nil, 0
	}
	return t.stamp, t.now().Unix()
}

// SetClock replaces the clock used to stamp inserted rows.
func (t *Table) SetClock(now func() time.Time) {
	t.now = now
}

// Define adds a column. Definitions happen at package initialisation, so a
// conflicting definition panics.
func (t *Table) Define(name string, typ DataType, opts ...ColumnOption) *Column {
	c := &Column{name: name, dataType: typ, table: t}
	for _, opt := range opts {
		opt(c)
	}
	c.source = c
	t.add(c)
	return c
}

// ForeignKey adds a column referencing ref, with ref's name and type. The
// root source of the chain is resolved here, once.
func (t *Table) ForeignKey(ref *Column, opts ...ColumnOption) *Column {
	if ref == nil || ref.table == nil {
		panic(fmt.Sprintf("schema: foreign key on %s references an unowned column", t.name))
	}
	c := &Column{name: ref.name, dataType: ref.dataType, table: t, foreign: ref}
	for _, opt := range opts {
		opt(c)
	}
	c.source = ref.source
	t.add(c)
	return c
}

func (t *Table) add(c *Column) {
	if _, dup := t.byName[c.name]; dup {
		panic(fmt.Sprintf("schema: column %s defined twice on %s", c.name, t.name))
	}
	if _, dup := t.bySource[c.source]; dup {
		panic(fmt.Sprintf("schema: %s maps to %s twice", c.source, t.name))
	}
	t.columns = append(t.columns, c)
	t.byName[c.name] = c
	t.bySource[c.source] = c
}

// Resolve maps col to the table's own column. Columns of other tables are
// accepted when their root source is shared with one of ours.
func (t *Table) Resolve(col *Column) (*Column, error) {
	if col == nil {
		return nil, errors.Wrapf(ErrSchemaViolation, "nil column used with table %s", t.name)
	}
	if col.table == t {
		return col, nil
	}
	if own, ok := t.bySource[col.source]; ok {
		return own, nil
	}
	return nil, errors.Wrapf(ErrSchemaViolation, "column %s is not part of table %s", col, t.name)
}

func (t *Table) PrimaryKey() []*Column {
	var keys []*Column
	for _, c := range t.columns {
		if c.primary {
			keys = append(keys, c)
		}
	}
	return keys
}

// CreateStatement renders the idempotent DDL for the table.
func (t *Table) CreateStatement() string {
	lines := make([]string, 0, len(t.columns)+2)
	for _, c := range t.columns {
		lines = append(lines, c.definition())
	}

	if keys := t.PrimaryKey(); len(keys) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", joinIdents(keys)))
	}
	for _, c := range t.columns {
		if c.foreign != nil {
			lines = append(lines, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
				c.Ident(), c.foreign.table.Ident(), c.foreign.Ident()))
		}
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Ident(), strings.Join(lines, ",\n\t"))
}

// DropStatement renders the idempotent inverse of CreateStatement.
func (t *Table) DropStatement() string {
	return "DROP TABLE IF EXISTS " + t.Ident()
}

func joinIdents(columns []*Column) string {
	idents := make([]string, len(columns))
	for i, c := range columns {
		idents[i] = c.Ident()
	}
	return strings.Join(idents, ", ")
}
