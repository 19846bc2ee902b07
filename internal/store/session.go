package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session is one open transaction, or a read-only view over the pool. It is
// not safe for concurrent use; each ingestion owns its own session.
type Session struct {
	q      querier
	tx     *sql.Tx
	logger zerolog.Logger
	last   string
	done   bool
}

// Begin opens a transaction. With the _txlock=immediate DSN flag SQLite takes
// the write lock here rather than at the first write.
func Begin(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*Session, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StatementError{Statement: "BEGIN", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	return &Session{q: tx, tx: tx, logger: logger}, nil
}

// WithSession runs fn inside a session, committing when it returns nil and
// rolling back otherwise, panics included.
func WithSession(ctx context.Context, db *sql.DB, logger zerolog.Logger, fn func(*Session) error) error {
	sess, err := Begin(ctx, db, logger)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sess.Rollback()
			panic(p)
		}
	}()

	if err := fn(sess); err != nil {
		if rbErr := sess.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Str("statement", sess.last).Msg("rollback failed")
		}
		return err
	}
	return sess.Commit()
}

// WithReader runs fn against the pool without opening a transaction, so it
// never waits on the write lock held by an ingestion. Each statement sees its
// own snapshot. Exec fails with ErrReadOnly.
func WithReader(ctx context.Context, db *sql.DB, logger zerolog.Logger, fn func(*Session) error) error {
	sess := &Session{q: db, logger: logger}
	defer func() { sess.done = true }()
	return fn(sess)
}

func (s *Session) readOnly() bool { return s.tx == nil }

func (s *Session) render(stmt Statement) (string, error) {
	if s.done {
		return "", ErrSessionDone
	}
	query, err := stmt.ToSQL()
	if err != nil {
		return "", err
	}
	s.last = query
	return query, nil
}

func (s *Session) fail(query string, err error) error {
	s.logger.Debug().Err(err).Str("statement", query).Msg("statement failed")
	return &StatementError{Statement: query, Err: err}
}

// Exec runs stmt and returns the number of affected rows.
func (s *Session) Exec(ctx context.Context, stmt Statement) (int64, error) {
	if s.readOnly() {
		return 0, ErrReadOnly
	}
	query, err := s.render(stmt)
	if err != nil {
		return 0, err
	}
	res, err := s.q.ExecContext(ctx, query)
	if err != nil {
		return 0, s.fail(query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail(query, err)
	}
	return n, nil
}

func (s *Session) Insert(ctx context.Context, b *InsertBuilder) (int64, error) {
	return s.Exec(ctx, b)
}

func (s *Session) Update(ctx context.Context, b *UpdateBuilder) (int64, error) {
	return s.Exec(ctx, b)
}

// FetchOne returns the first row of stmt. found is false when there is none.
func (s *Session) FetchOne(ctx context.Context, stmt Statement) (Row, bool, error) {
	query, err := s.render(stmt)
	if err != nil {
		return nil, false, err
	}
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, false, s.fail(query, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, s.fail(query, err)
		}
		return nil, false, nil
	}
	row, err := scanRow(rows)
	if err != nil {
		return nil, false, s.fail(query, err)
	}
	return row, true, nil
}

// FetchAll returns every row of stmt in the order the statement asks for.
func (s *Session) FetchAll(ctx context.Context, stmt Statement) ([]Row, error) {
	query, err := s.render(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, s.fail(query, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, s.fail(query, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(query, err)
	}
	return result, nil
}

func (s *Session) Exists(ctx context.Context, stmt Statement) (bool, error) {
	_, found, err := s.FetchOne(ctx, stmt)
	return found, err
}

func (s *Session) Commit() error {
	if s.done {
		return ErrSessionDone
	}
	s.done = true
	if s.readOnly() {
		return nil
	}
	if err := s.tx.Commit(); err != nil {
		return &StatementError{Statement: "COMMIT", Err: err}
	}
	return nil
}

// Rollback discards the transaction. Rolling back a finished session is a
// no-op.
func (s *Session) Rollback() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.readOnly() {
		return nil
	}
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &StatementError{Statement: "ROLLBACK", Err: err}
	}
	return nil
}
