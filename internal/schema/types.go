package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSchemaViolation is returned when a statement names a column that does
	// not belong to the table it targets.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrConstraint is returned when a value cannot be stored in a column:
	// wrong Go type, outside an enumerated domain, too long, or NULL in a
	// NOT NULL column.
	ErrConstraint = errors.New("constraint violation")
)

type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindBoolean
	KindText
)

// DataType is the semantic type of a column. It knows its SQL declaration,
// its CHECK clause and how to render a Go value as a SQL literal.
type DataType struct {
	kind   Kind
	length int
	enum   []string
}

var (
	Integer = DataType{kind: KindInteger}
	Float   = DataType{kind: KindFloat}
	Boolean = DataType{kind: KindBoolean}
)

// VarChar is bounded text.
func VarChar(length int) DataType {
	return DataType{kind: KindText, length: length}
}

// Enum is bounded text restricted to a fixed set of values.
func Enum(length int, values ...string) DataType {
	for _, v := range values {
		if utf8.RuneCountInString(v) > length {
			panic(fmt.Sprintf("schema: enum value %q longer than %d", v, length))
		}
	}
	return DataType{kind: KindText, length: length, enum: append([]string(nil), values...)}
}

func (t DataType) SQLName() string {
	switch t.kind {
	case KindFloat:
		return "NUMERIC"
	case KindText:
		return fmt.Sprintf("VARCHAR(%d)", t.length)
	default:
		return "INTEGER"
	}
}

// Check renders the CHECK clause for the column, or "" when the type has no
// enumerated domain.
func (t DataType) Check(column string) string {
	switch {
	case t.kind == KindBoolean:
		return fmt.Sprintf("CHECK(%s IN (0, 1))", Quote(column))
	case len(t.enum) > 0:
		literals := make([]string, len(t.enum))
		for i, v := range t.enum {
			literals[i] = quoteText(v)
		}
		return fmt.Sprintf("CHECK(%s IN (%s))", Quote(column), strings.Join(literals, ", "))
	}
	return ""
}

// Format renders v as a SQL literal for this type.
func (t DataType) Format(v any) (string, error) {
	switch t.kind {
	case KindInteger:
		n, err := toInt64(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case KindFloat:
		return formatFloat(v)
	case KindBoolean:
		return formatBoolean(v)
	default:
		return t.formatText(v)
	}
}

func formatFloat(v any) (string, error) {
	var f float64
	switch n := v.(type) {
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		i, err := toInt64(v)
		if err != nil {
			return "", errors.Wrapf(ErrConstraint, "float column cannot hold %T", v)
		}
		f = float64(i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.Wrapf(ErrConstraint, "float column cannot hold %v", f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func formatBoolean(v any) (string, error) {
	if b, ok := v.(bool); ok {
		if b {
			return "1", nil
		}
		return "0", nil
	}
	n, err := toInt64(v)
	if err != nil {
		return "", errors.Wrapf(ErrConstraint, "boolean column cannot hold %T", v)
	}
	if n != 0 && n != 1 {
		return "", errors.Wrapf(ErrConstraint, "boolean column accepts 0 or 1, got %d", n)
	}
	return strconv.FormatInt(n, 10), nil
}

func (t DataType) formatText(v any) (string, error) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	default:
		return "", errors.Wrapf(ErrConstraint, "text column cannot hold %T", v)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return "", errors.Wrap(ErrConstraint, "text contains a NUL byte")
	}
	if n := utf8.RuneCountInString(s); t.length > 0 && n > t.length {
		return "", errors.Wrapf(ErrConstraint, "text of length %d exceeds VARCHAR(%d)", n, t.length)
	}
	if len(t.enum) > 0 && !contains(t.enum, s) {
		return "", errors.Wrapf(ErrConstraint, "%q is not one of %v", s, t.enum)
	}
	return quoteText(s), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errors.Wrapf(ErrConstraint, "integer %d overflows", n)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.Wrapf(ErrConstraint, "integer %d overflows", n)
		}
		return int64(n), nil
	}
	return 0, errors.Wrapf(ErrConstraint, "integer column cannot hold %T", v)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// single quotes are escaped by doubling them
func quoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Quote renders an identifier so table and column names never collide with
// SQL keywords such as MATCH.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
