// Package postgresttest provides an in-process PostgREST stand-in for the
// students table, for tests that exercise the HTTP client end to end.
package postgresttest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-manager/internal/types"
)

// APIKey is the key the server accepts.
const APIKey = "test-anon-key"

// Request is one request the server received.
type Request struct {
	Method string
	Query  string
	Prefer string
	Body   map[string]any
}

// Failure is an error response queued for the next matching request.
type Failure struct {
	Method  string
	Status  int
	Code    string
	Message string
	// Raw, when set, is written verbatim instead of a JSON error body.
	Raw string
}

// Server is a minimal students table behind a PostgREST-shaped API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	rows     map[int64]types.Student
	requests []Request
	failures []Failure
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{nextID: 1, rows: make(map[int64]types.Student)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Fail queues a failure for the next request with the given method.
func (s *Server) Fail(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

// Seed inserts a row directly and returns its id.
func (s *Server) Seed(st types.Student) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.nextID
	s.nextID++
	s.rows[st.ID] = st
	return st.ID
}

// Rows returns the table contents ordered by id.
func (s *Server) Rows() []types.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedRows()
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Methods returns the method of every request received so far.
func (s *Server) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r.Method)
	}
	return out
}

func (s *Server) sortedRows() []types.Student {
	out := make([]types.Student, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Request{Method: r.Method, Query: r.URL.RawQuery, Prefer: r.Header.Get("Prefer")}
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
	}
	s.requests = append(s.requests, rec)

	if r.URL.Path != "/rest/v1/students" {
		writeError(w, http.StatusNotFound, "PGRST205", "Could not find the table in the schema cache")
		return
	}
	if r.Header.Get("apikey") != APIKey || r.Header.Get("Authorization") != "Bearer "+APIKey {
		writeError(w, http.StatusUnauthorized, "PGRST301", "JWSError (CompactDecodeError Invalid number of parts)")
		return
	}

	for i, f := range s.failures {
		if f.Method != r.Method {
			continue
		}
		s.failures = append(s.failures[:i], s.failures[i+1:]...)
		if f.Raw != "" {
			w.WriteHeader(f.Status)
			_, _ = io.WriteString(w, f.Raw)
			return
		}
		writeError(w, f.Status, f.Code, f.Message)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sortedRows())

	case http.MethodHead:
		n := len(s.rows)
		if n == 0 {
			w.Header().Set("Content-Range", "*/0")
		} else {
			w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", n-1, n))
		}
		w.WriteHeader(http.StatusOK)

	case http.MethodPost:
		if _, ok := rec.Body["id"]; ok {
			writeError(w, http.StatusBadRequest, "428C9", `cannot insert a non-DEFAULT value into column "id"`)
			return
		}
		st := types.Student{ID: s.nextID, Gender: types.GenderMale}
		applyFields(&st, rec.Body)
		s.nextID++
		s.rows[st.ID] = st
		w.WriteHeader(http.StatusCreated)

	case http.MethodPatch:
		id, ok := parseIDFilter(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "PGRST100", "failed to parse filter")
			return
		}
		st, found := s.rows[id]
		if !found {
			writeJSON(w, http.StatusOK, []types.Student{})
			return
		}
		applyFields(&st, rec.Body)
		s.rows[id] = st
		writeJSON(w, http.StatusOK, []types.Student{st})

	case http.MethodDelete:
		id, ok := parseIDFilter(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "PGRST100", "failed to parse filter")
			return
		}
		delete(s.rows, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func parseIDFilter(r *http.Request) (int64, bool) {
	v, ok := strings.CutPrefix(r.URL.Query().Get("id"), "eq.")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	return id, err == nil
}

func applyFields(st *types.Student, body map[string]any) {
	if v, ok := body["name"].(string); ok {
		st.Name = v
	}
	if v, ok := body["email"].(string); ok {
		st.Email = v
	}
	if v, ok := body["phone_number"].(string); ok {
		st.PhoneNumber = v
	}
	if v, ok := body["gender"].(string); ok {
		st.Gender = types.Gender(v)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
		"details": nil,
		"hint":    nil,
	})
}
