package store

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
)

// ErrSessionDone is returned when a session is used after commit or rollback.
var ErrSessionDone = errors.New("session already finished")

// ErrReadOnly is returned when a reader session is asked to write.
var ErrReadOnly = errors.New("session is read-only")

// StatementError carries the statement that was running when the storage
// engine failed.
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%v (statement: %s)", e.Err, e.Statement)
}

func (e *StatementError) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err is a PRIMARY KEY or UNIQUE failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique)
}
