package student

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/aanand-mishra/student-manager/internal/storage/postgrest"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest/postgresttest"
	"github.com/aanand-mishra/student-manager/internal/types"
	"github.com/aanand-mishra/student-manager/internal/utils/response"
)

type HandlerSuite struct {
	suite.Suite
	srv    *postgresttest.Server
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.srv = postgresttest.NewServer(s.T())
	client, err := postgrest.New(s.srv.URL, postgresttest.APIKey, time.Second)
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Get("/api/students", GetList(client))
	r.Post("/api/students", New(client))
	r.Put("/api/students/{id}", Update(client))
	r.Delete("/api/students/{id}", Delete(client))
	s.router = r
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) errorBody(rec *httptest.ResponseRecorder) response.Response {
	var got response.Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (s *HandlerSuite) TestListEmpty() {
	rec := s.do(http.MethodGet, "/api/students", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *HandlerSuite) TestCreateThenList() {
	rec := s.do(http.MethodPost, "/api/students", `{"name":"Ada","email":"ada@x.com","gender":"female"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/students", "")
	s.Equal(http.StatusOK, rec.Code)

	var got []types.Student
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal("Ada", got[0].Name)
	s.Equal(types.GenderFemale, got[0].Gender)
	s.NotZero(got[0].ID)
}

func (s *HandlerSuite) TestCreateValidation() {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed json", `{"name":`, "unexpected EOF"},
		{"missing email", `{"name":"Ada"}`, "field email is required"},
		{"bad gender", `{"name":"Ada","email":"a@x.com","gender":"x"}`, "field gender must be one of: male, female"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/students", tt.body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(tt.want, s.errorBody(rec).Error)
		})
	}
	s.Empty(s.srv.Requests(), "invalid bodies never reach the store")
}

func (s *HandlerSuite) TestUpdate() {
	id := s.srv.Seed(types.Student{Name: "Ada", Email: "ada@x.com", PhoneNumber: "1", Gender: types.GenderFemale})

	rec := s.do(http.MethodPut, "/api/students/"+itoa(id),
		`{"name":"Ada","email":"ada@x.com","phone_number":"999","gender":"female"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"id":`+itoa(id)+`,"name":"Ada","email":"ada@x.com","phone_number":"999","gender":"female"}`, rec.Body.String())
	s.Equal("999", s.srv.Rows()[0].PhoneNumber)
}

func (s *HandlerSuite) TestUpdateNotFound() {
	rec := s.do(http.MethodPut, "/api/students/42",
		`{"name":"Ada","email":"ada@x.com","phone_number":"999","gender":"female"}`)

	s.Equal(http.StatusNotFound, rec.Code)
	got := s.errorBody(rec)
	s.Equal("PGRST116", got.Code)
	s.Equal("no student found with id: 42", got.Error)
}

func (s *HandlerSuite) TestUpdateRequiresAllFields() {
	rec := s.do(http.MethodPut, "/api/students/1", `{"name":"Ada","email":"ada@x.com"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(s.errorBody(rec).Error, "field phone_number is required")
}

func (s *HandlerSuite) TestInvalidID() {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec := s.do(method, "/api/students/abc", `{}`)
		s.Equal(http.StatusBadRequest, rec.Code, method)
		s.Equal("invalid id: must be an integer", s.errorBody(rec).Error)
	}
}

func (s *HandlerSuite) TestDelete() {
	id := s.srv.Seed(types.Student{Name: "Ada", Email: "ada@x.com", Gender: types.GenderFemale})

	rec := s.do(http.MethodDelete, "/api/students/"+itoa(id), "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"deleted"}`, rec.Body.String())
	s.Empty(s.srv.Rows())
}

func (s *HandlerSuite) TestStoreErrorStatuses() {
	s.Run("access denied is 403", func() {
		s.srv.Fail(postgresttest.Failure{
			Method: http.MethodPost, Status: http.StatusForbidden, Code: "42501",
			Message: `new row violates row-level security policy for table "students"`,
		})
		rec := s.do(http.MethodPost, "/api/students", `{"name":"Ada","email":"a@x.com"}`)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal("42501", s.errorBody(rec).Code)
	})

	s.Run("other rejection is 502", func() {
		s.srv.Fail(postgresttest.Failure{
			Method: http.MethodGet, Status: http.StatusNotFound, Code: "42P01",
			Message: `relation "public.students" does not exist`,
		})
		rec := s.do(http.MethodGet, "/api/students", "")
		s.Equal(http.StatusBadGateway, rec.Code)
		s.Equal(`relation "public.students" does not exist`, s.errorBody(rec).Error)
	})

	s.Run("unreachable store is 503", func() {
		s.srv.Close()
		rec := s.do(http.MethodGet, "/api/students", "")
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
