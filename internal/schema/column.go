package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Column is a typed attribute of a Table. A column only points back at its
// table; tables own their columns.
type Column struct {
	name     string
	dataType DataType
	primary  bool
	nullable bool

	table   *Table
	foreign *Column
	source  *Column
}

type ColumnOption func(*Column)

func PrimaryKey() ColumnOption {
	return func(c *Column) { c.primary = true }
}

func Nullable() ColumnOption {
	return func(c *Column) { c.nullable = true }
}

func (c *Column) Name() string        { return c.name }
func (c *Column) Type() DataType      { return c.dataType }
func (c *Column) Table() *Table       { return c.table }
func (c *Column) IsPrimaryKey() bool  { return c.primary }
func (c *Column) References() *Column { return c.foreign }

// Source is the column at the end of the foreign key chain. For a column that
// references nothing it is the column itself.
func (c *Column) Source() *Column { return c.source }

func (c *Column) Ident() string { return Quote(c.name) }

func (c *Column) String() string {
	if c.table == nil {
		return c.name
	}
	return c.table.name + "." + c.name
}

// Format renders v as a literal for this column, honouring nullability.
func (c *Column) Format(v any) (string, error) {
	if v == nil {
		if c.nullable {
			return "NULL", nil
		}
		return "", errors.Wrapf(ErrConstraint, "column %s is NOT NULL", c)
	}
	literal, err := c.dataType.Format(v)
	if err != nil {
		return "", errors.Wrapf(err, "column %s", c)
	}
	return literal, nil
}

func (c *Column) definition() string {
	parts := []string{c.Ident(), c.dataType.SQLName()}
	if check := c.dataType.Check(c.name); check != "" {
		parts = append(parts, check)
	}
	if !c.nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

// ColumnValues pairs a column with the values written to it, one per row.
type ColumnValues struct {
	Column *Column
	Values []any
}

func (c *Column) Values(values ...any) ColumnValues {
	return ColumnValues{Column: c, Values: values}
}

// Filter is an equality predicate. A nil value matches NULL.
type Filter struct {
	Column *Column
	Value  any
}

func (c *Column) Eq(v any) Filter {
	return Filter{Column: c, Value: v}
}
