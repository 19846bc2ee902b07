package store

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/peggalex/rchkChampionships/internal/schema"
)

// ErrLengthMismatch is returned when the value lists of an insert do not all
// have the same number of rows.
var ErrLengthMismatch = errors.New("column value lists differ in length")

// Statement is anything that renders to a single SQL statement.
type Statement interface {
	ToSQL() (string, error)
}

type rawStatement string

// Raw wraps hand-written SQL, for the few reads the builders do not cover.
func Raw(query string) Statement { return rawStatement(query) }

func (r rawStatement) ToSQL() (string, error) {
	if strings.TrimSpace(string(r)) == "" {
		return "", errors.New("empty statement")
	}
	return string(r), nil
}

type InsertBuilder struct {
	table  *schema.Table
	values []schema.ColumnValues
}

func InsertInto(table *schema.Table) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Values(values ...schema.ColumnValues) *InsertBuilder {
	b.values = append(b.values, values...)
	return b
}

// ToSQL validates every column and value before rendering, so a bad value in
// any row fails the whole statement.
func (b *InsertBuilder) ToSQL() (string, error) {
	if b.table == nil {
		return "", errors.New("insert table is required")
	}
	if len(b.values) == 0 {
		return "", errors.Newf("insert into %s has no columns", b.table.Name())
	}

	stampCol, stampValue := b.table.Stamp()
	columns := make([]*schema.Column, 0, len(b.values)+1)
	seen := make(map[*schema.Column]struct{}, len(b.values))
	rows := len(b.values[0].Values)

	for _, cv := range b.values {
		col, err := b.table.Resolve(cv.Column)
		if err != nil {
			return "", err
		}
		if col == stampCol {
			return "", errors.Wrapf(schema.ErrSchemaViolation, "%s is stamped automatically", col)
		}
		if _, dup := seen[col]; dup {
			return "", errors.Wrapf(schema.ErrSchemaViolation, "%s given twice", col)
		}
		seen[col] = struct{}{}
		if len(cv.Values) != rows {
			return "", errors.Wrapf(ErrLengthMismatch, "%s has %d values, want %d", col, len(cv.Values), rows)
		}
		columns = append(columns, col)
	}
	if rows == 0 {
		return "", errors.Wrapf(ErrLengthMismatch, "insert into %s has no rows", b.table.Name())
	}

	tuples := make([]string, rows)
	for row := 0; row < rows; row++ {
		literals := make([]string, 0, len(columns)+1)
		for i, col := range columns {
			literal, err := col.Format(b.values[i].Values[row])
			if err != nil {
				return "", err
			}
			literals = append(literals, literal)
		}
		if stampCol != nil {
			literals = append(literals, fmt.Sprintf("%d", stampValue))
		}
		tuples[row] = "(" + strings.Join(literals, ", ") + ")"
	}

	if stampCol != nil {
		columns = append(columns, stampCol)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		b.table.Ident(), joinIdents(columns), strings.Join(tuples, ", ")), nil
}

type SelectBuilder struct {
	columns []*schema.Column
	table   *schema.Table
	where   []schema.Filter
	orderBy []*schema.Column
	desc    bool
	limit   int
}

// Select starts a query. No columns means every column.
func Select(columns ...*schema.Column) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table *schema.Table) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(filters ...schema.Filter) *SelectBuilder {
	b.where = append(b.where, filters...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...*schema.Column) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) Desc() *SelectBuilder {
	b.desc = true
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, error) {
	if b.table == nil {
		return "", errors.New("select table is required")
	}

	projection := "*"
	if len(b.columns) > 0 {
		cols, err := resolveAll(b.table, b.columns)
		if err != nil {
			return "", err
		}
		projection = joinIdents(cols)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(projection)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table.Ident())

	where, err := renderWhere(b.table, b.where)
	if err != nil {
		return "", err
	}
	sb.WriteString(where)

	if len(b.orderBy) > 0 {
		cols, err := resolveAll(b.table, b.orderBy)
		if err != nil {
			return "", err
		}
		direction := " ASC"
		if b.desc {
			direction = " DESC"
		}
		terms := make([]string, len(cols))
		for i, c := range cols {
			terms[i] = c.Ident() + direction
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}
	if b.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	}

	return sb.String(), nil
}

type assignment struct {
	column *schema.Column
	value  any
}

type UpdateBuilder struct {
	table *schema.Table
	sets  []assignment
	where []schema.Filter
}

func Update(table *schema.Table) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column *schema.Column, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(filters ...schema.Filter) *UpdateBuilder {
	b.where = append(b.where, filters...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, error) {
	if b.table == nil {
		return "", errors.New("update table is required")
	}
	if len(b.sets) == 0 {
		return "", errors.Newf("update of %s sets nothing", b.table.Name())
	}
	if len(b.where) == 0 {
		return "", errors.Newf("update of %s has no filter", b.table.Name())
	}

	stampCol, _ := b.table.Stamp()
	parts := make([]string, len(b.sets))
	for i, set := range b.sets {
		col, err := b.table.Resolve(set.column)
		if err != nil {
			return "", err
		}
		if col == stampCol {
			return "", errors.Wrapf(schema.ErrSchemaViolation, "%s is stamped automatically", col)
		}
		literal, err := col.Format(set.value)
		if err != nil {
			return "", err
		}
		parts[i] = col.Ident() + " = " + literal
	}

	where, err := renderWhere(b.table, b.where)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("UPDATE %s SET %s%s", b.table.Ident(), strings.Join(parts, ", "), where), nil
}

func renderWhere(table *schema.Table, filters []schema.Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}
	terms := make([]string, len(filters))
	for i, f := range filters {
		col, err := table.Resolve(f.Column)
		if err != nil {
			return "", err
		}
		if f.Value == nil {
			terms[i] = col.Ident() + " IS NULL"
			continue
		}
		literal, err := col.Format(f.Value)
		if err != nil {
			return "", err
		}
		terms[i] = col.Ident() + " = " + literal
	}
	return " WHERE " + strings.Join(terms, " AND "), nil
}

func resolveAll(table *schema.Table, columns []*schema.Column) ([]*schema.Column, error) {
	resolved := make([]*schema.Column, len(columns))
	for i, c := range columns {
		col, err := table.Resolve(c)
		if err != nil {
			return nil, err
		}
		resolved[i] = col
	}
	return resolved, nil
}

func joinIdents(columns []*schema.Column) string {
	idents := make([]string, len(columns))
	for i, c := range columns {
		idents[i] = c.Ident()
	}
	return strings.Join(idents, ", ")
}
