package store

import (
	"database/sql"
	"strconv"
)

// Row is one fetched row keyed by column name.
type Row map[string]any

func scanRow(rows *sql.Rows) (Row, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(Row, len(names))
	for i, name := range names {
		if b, ok := values[i].([]byte); ok {
			row[name] = string(b)
			continue
		}
		row[name] = values[i]
	}
	return row, nil
}

// Int64 reads an integer column. ok is false for NULL or a non-numeric value.
func (r Row) Int64(name string) (int64, bool) {
	switch v := r[name].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func (r Row) Int(name string) (int, bool) {
	n, ok := r.Int64(name)
	return int(n), ok
}

func (r Row) String(name string) (string, bool) {
	s, ok := r[name].(string)
	return s, ok
}

func (r Row) Bool(name string) (bool, bool) {
	n, ok := r.Int64(name)
	return n != 0, ok
}

func (r Row) IsNull(name string) bool {
	return r[name] == nil
}
