// Package storage defines the Storage interface, the contract every
// student store backend satisfies, and the error values they share.
//
// The manager and the HTTP handlers only see this interface, so the
// hosted REST store, a direct Postgres connection and the local SQLite
// file are interchangeable at startup.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-manager/internal/types"
)

//go:generate mockgen -source=storage.go -destination=mocks/mocks.go -package=mocks Storage

// Table is the collection every backend reads and writes.
const Table = "students"

// Storage is the record store contract.
//
// Implementations hold no cached state: every call goes to the backend.
// Backend rejections come back as *StoreError; anything else (transport
// failures, undecodable payloads) is returned wrapped as-is.
type Storage interface {
	// ListStudents returns every row in the store's default order.
	// Returns an empty slice (not nil) when the table is empty.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// CreateStudent inserts one row. The store assigns the id.
	CreateStudent(ctx context.Context, student types.StudentInsert) error

	// UpdateStudentByID overwrites all four editable fields of the row
	// matching id. A missing row is a *StoreError with CodeNotFound.
	UpdateStudentByID(ctx context.Context, id int64, student types.StudentUpdate) error

	// DeleteStudentByID removes the row matching id. Deleting an id that
	// does not exist is not an error.
	DeleteStudentByID(ctx context.Context, id int64) error

	// CountStudents is the lightweight connectivity probe.
	CountStudents(ctx context.Context) (int64, error)
}

// Codes with a meaning of their own.
const (
	// CodeJWT is the code PostgREST uses when the request is not allowed
	// to see the resource.
	CodeJWT = "PGRST301"
	// CodeNotFound is used when a single-row operation matched nothing.
	CodeNotFound = "PGRST116"
	// CodeInsufficientPrivilege is the Postgres SQLSTATE raised by
	// row-level security and missing grants.
	CodeInsufficientPrivilege = "42501"

	rlsMarker = "row-level security"
)

// ErrAccessDenied matches, via errors.Is, any StoreError that reports a
// permission or policy rejection rather than a data problem.
var ErrAccessDenied = errors.New("access denied")

// StoreError is a rejection reported by the backend.
type StoreError struct {
	Op      string
	Code    string
	Message string
	Details string
	Hint    string
	Status  int
	// Err is the driver error behind the rejection, when there is one.
	Err error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Code != "" {
		fmt.Fprintf(&b, "(%s) ", e.Code)
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAccessDenied) classify the rejection.
func (e *StoreError) Is(target error) bool {
	return target == ErrAccessDenied && e.AccessDenied()
}

// AccessDenied reports whether the rejection is a permission or policy
// violation.
func (e *StoreError) AccessDenied() bool {
	return e.Code == CodeJWT ||
		e.Code == CodeInsufficientPrivilege ||
		strings.Contains(e.Message, rlsMarker)
}

// NotFound reports whether a single-row operation matched nothing.
func (e *StoreError) NotFound() bool {
	return e.Code == CodeNotFound
}

// AsStoreError extracts the *StoreError from err's chain.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// NotFoundError builds the rejection returned when no row has the id.
func NotFoundError(op string, id int64) *StoreError {
	return &StoreError{
		Op:      op,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no student found with id: %d", id),
	}
}
