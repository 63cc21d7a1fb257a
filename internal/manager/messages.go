package manager

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-manager/internal/storage"
)

// User-visible texts.
const (
	MsgConnectionFailed = "Database connection failed. Please check your database settings."
	MsgLoaded           = "Loaded %d student(s)"
	MsgAdded            = "Student added successfully"
	MsgUpdated          = "Student updated successfully!"
	MsgDeleted          = "Student deleted successfully"
	MsgInvalidForm      = "Please fix the form: "
	MsgAccessDenied     = "Database access denied. Please check your row-level security setup."
	MsgUnexpected       = "Failed to connect to database. Please check your connection."
	msgUnknownError     = "Unknown error"
)

// Op names the store operation a failure message refers to.
type Op string

const (
	OpFetch  Op = "fetch students"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Describe turns a store failure into the text shown to the user:
// the setup hint for access-denied rejections, the backend's own message
// for other rejections, and a generic connectivity text for everything
// else.
func Describe(op Op, err error) string {
	if errors.Is(err, storage.ErrAccessDenied) {
		return MsgAccessDenied
	}
	if se, ok := storage.AsStoreError(err); ok {
		msg := se.Message
		if msg == "" {
			msg = msgUnknownError
		}
		return fmt.Sprintf("Failed to %s: %s", op, msg)
	}
	return MsgUnexpected
}
