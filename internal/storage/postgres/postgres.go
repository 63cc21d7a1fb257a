// Package postgres implements storage.Storage over a direct Postgres
// connection (for example a Supabase project's pooled connection string)
// instead of the REST endpoint.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
)

// Store reads and writes the students table with sqlx.
type Store struct {
	db *sqlx.DB
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return New(db), nil
}

// New wraps an open handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	err := s.db.SelectContext(ctx, &students,
		`SELECT id, name, email, phone_number, gender FROM students`)
	if err != nil {
		return nil, rejection("ListStudents", err)
	}
	return students, nil
}

// CreateStudent inserts a row. Optional fields that are nil are left out
// of the column list so the table defaults apply.
func (s *Store) CreateStudent(ctx context.Context, student types.StudentInsert) error {
	query := `INSERT INTO students (name, email) VALUES ($1, $2)`
	args := []any{student.Name, student.Email}

	switch {
	case student.PhoneNumber != nil && student.Gender != nil:
		query = `INSERT INTO students (name, email, phone_number, gender) VALUES ($1, $2, $3, $4)`
		args = append(args, *student.PhoneNumber, string(*student.Gender))
	case student.PhoneNumber != nil:
		query = `INSERT INTO students (name, email, phone_number) VALUES ($1, $2, $3)`
		args = append(args, *student.PhoneNumber)
	case student.Gender != nil:
		query = `INSERT INTO students (name, email, gender) VALUES ($1, $2, $3)`
		args = append(args, string(*student.Gender))
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return rejection("CreateStudent", err)
	}
	return nil
}

func (s *Store) UpdateStudentByID(ctx context.Context, id int64, student types.StudentUpdate) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE students SET name = $1, email = $2, phone_number = $3, gender = $4 WHERE id = $5`,
		student.Name, student.Email, student.PhoneNumber, string(student.Gender), id)
	if err != nil {
		return rejection("UpdateStudentByID", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if n == 0 {
		return storage.NotFoundError("UpdateStudentByID", id)
	}
	return nil
}

func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return rejection("DeleteStudentByID", err)
	}
	return nil
}

func (s *Store) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, rejection("CountStudents", err)
	}
	return n, nil
}

// rejection maps a server-side error to a StoreError. Connection-level
// failures carry no SQLSTATE and are returned wrapped instead.
func rejection(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &storage.StoreError{
			Op:      op,
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
