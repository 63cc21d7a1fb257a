// Package student contains the JSON handlers for the /api/students
// resource. They sit directly on storage.Storage and share nothing with the
// page state, so scripts and the HTML page can be used side by side.
//
// HANDLER PATTERN: every exported function is a factory. It receives the
// store once at startup and returns the http.HandlerFunc the router calls
// on every request:
//
//	r.Post("/api/students", student.New(store))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
	"github.com/aanand-mishra/student-manager/internal/utils/response"
	"github.com/aanand-mishra/student-manager/internal/utils/validate"
)

const maxBodyBytes = 1 << 20

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON), phone_number and gender optional:
//
//	{ "name": "Ada", "email": "ada@x.com", "phone_number": "555", "gender": "female" }
//
// Success response (201 Created):
//
//	{ "status": "ok" }
//
// The store does not hand the new row back; list again to see its id.
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.StudentInsert
		if !decode(w, r, &student) {
			return
		}

		if err := store.CreateStudent(r.Context(), student); err != nil {
			writeStoreError(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.String("email", student.Email))
		response.WriteJSON(w, http.StatusCreated, response.Response{Status: response.StatusOK})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
//
// Returns a JSON array of every row, [] (not null) when the table is empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.ListStudents(r.Context())
		if err != nil {
			writeStoreError(w, "error getting students", err)
			return
		}
		if students == nil {
			students = []types.Student{}
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
//
// All four fields are required. Success (200 OK) echoes the row as written:
//
//	{ "id": 1, "name": "Ada", "email": "ada@x.com", "phone_number": "999", "gender": "female" }
//
// 404 when no row has the id.
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var student types.StudentUpdate
		if !decode(w, r, &student) {
			return
		}

		if err := store.UpdateStudentByID(r.Context(), id, student); err != nil {
			writeStoreError(w, "error updating student", err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, types.Student{
			ID:          id,
			Name:        student.Name,
			Email:       student.Email,
			PhoneNumber: student.PhoneNumber,
			Gender:      student.Gender,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
//
// Success response (200 OK), also when the id did not exist:
//
//	{ "status": "deleted" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := store.DeleteStudentByID(r.Context(), id); err != nil {
			writeStoreError(w, "error deleting student", err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// pathID parses the {id} segment, writing a 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decode reads the JSON body into v and validates it. On failure it writes
// the 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return false
	}
	return true
}

// writeStoreError maps a store failure to a status code:
//
//	403 access denied, 404 not found, 502 other rejections, 503 otherwise.
func writeStoreError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))

	se, ok := storage.AsStoreError(err)
	if !ok {
		response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
		return
	}

	status := http.StatusBadGateway
	switch {
	case se.AccessDenied():
		status = http.StatusForbidden
	case se.NotFound():
		status = http.StatusNotFound
	}
	response.WriteJSON(w, status, response.Response{
		Status: response.StatusError,
		Error:  se.Message,
		Code:   se.Code,
	})
}
