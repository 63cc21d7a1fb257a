// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It is the local backend: no network, no hosted project, just a file on
// disk. Useful for development and for running the dashboard offline
// against throwaway data.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// The CHECK mirrors the two-value gender enumeration of the hosted table.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			email        TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			gender       TEXT NOT NULL DEFAULT 'male' CHECK (gender IN ('male', 'female'))
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row. Omitted optional fields fall back to
// the column defaults.
func (s *SQLite) CreateStudent(ctx context.Context, student types.StudentInsert) error {
	phone := ""
	if student.PhoneNumber != nil {
		phone = *student.PhoneNumber
	}
	gender := types.GenderMale
	if student.Gender != nil {
		gender = *student.Gender
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, email, phone_number, gender) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, student.Name, student.Email, phone, string(gender)); err != nil {
		return rejection("CreateStudent", err)
	}
	return nil
}

// ListStudents returns all rows ordered by id.
func (s *SQLite) ListStudents(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, email, phone_number, gender FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, rejection("ListStudents", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.PhoneNumber,
			&student.Gender,
		); err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces all editable fields of the row.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, student types.StudentUpdate) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET name = ?, email = ?, phone_number = ?, gender = ? WHERE id = ?",
	)
	if err != nil {
		return fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	// Argument order matches the ? order: name, email, phone_number, gender, id
	result, err := stmt.ExecContext(ctx, student.Name, student.Email, student.PhoneNumber, string(student.Gender), id)
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

// DeleteStudentByID removes a row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return rejection("DeleteStudentByID", err)
	}
	return nil
}

// CountStudents runs SELECT COUNT(*).
func (s *SQLite) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&n); err != nil {
		return 0, rejection("CountStudents", err)
	}
	return n, nil
}

// rejection reports a statement the database refused as a StoreError,
// keeping the driver error reachable through Unwrap.
func rejection(op string, err error) error {
	return &storage.StoreError{Op: op, Message: err.Error(), Err: err}
}
