// Package postgrest implements storage.Storage against a hosted PostgREST
// endpoint (the REST surface Supabase exposes under /rest/v1).
//
// One *Client is built at startup and shared; it keeps no state between
// calls beyond the configured endpoint, key and http.Client.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
)

// RestPath is where PostgREST is mounted on a Supabase project URL.
const RestPath = "/rest/v1"

const (
	preferMinimal        = "return=minimal"
	preferRepresentation = "return=representation"
	preferCount          = "count=exact"
)

// Client talks to one PostgREST table.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithTable points the client at a different table.
func WithTable(name string) Option {
	return func(cl *Client) { cl.table = name }
}

// New builds a client for the project at projectURL. Both values are
// required.
func New(projectURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if projectURL == "" {
		return nil, errors.New("postgrest.New: project url is required")
	}
	if apiKey == "" {
		return nil, errors.New("postgrest.New: api key is required")
	}
	if _, err := url.Parse(projectURL); err != nil {
		return nil, fmt.Errorf("postgrest.New: parse url: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(projectURL, "/") + RestPath,
		apiKey:  apiKey,
		table:   storage.Table,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apiError is the body PostgREST sends with a non-2xx status.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// ListStudents issues GET /students?select=*.
func (c *Client) ListStudents(ctx context.Context) ([]types.Student, error) {
	q := url.Values{"select": {"*"}}

	resp, err := c.do(ctx, "ListStudents", http.MethodGet, q, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	students := make([]types.Student, 0)
	if err := json.NewDecoder(resp.Body).Decode(&students); err != nil {
		return nil, fmt.Errorf("ListStudents: decode: %w", err)
	}
	return students, nil
}

// CreateStudent issues POST /students without asking for the row back.
func (c *Client) CreateStudent(ctx context.Context, student types.StudentInsert) error {
	resp, err := c.do(ctx, "CreateStudent", http.MethodPost, nil, student, preferMinimal)
	if err != nil {
		return err
	}
	return drain(resp)
}

// UpdateStudentByID issues PATCH /students?id=eq.{id}. The updated rows are
// requested back so that a missing id can be reported.
func (c *Client) UpdateStudentByID(ctx context.Context, id int64, student types.StudentUpdate) error {
	resp, err := c.do(ctx, "UpdateStudentByID", http.MethodPatch, idFilter(id), student, preferRepresentation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var rows []types.Student
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("UpdateStudentByID: decode: %w", err)
	}
	if len(rows) == 0 {
		return storage.NotFoundError("UpdateStudentByID", id)
	}
	return nil
}

// DeleteStudentByID issues DELETE /students?id=eq.{id}.
func (c *Client) DeleteStudentByID(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, "DeleteStudentByID", http.MethodDelete, idFilter(id), nil, preferMinimal)
	if err != nil {
		return err
	}
	return drain(resp)
}

// CountStudents issues HEAD /students with an exact count and reads the
// total from Content-Range ("0-9/10", or "*/0" for an empty table).
func (c *Client) CountStudents(ctx context.Context) (int64, error) {
	q := url.Values{"select": {"*"}}

	resp, err := c.do(ctx, "CountStudents", http.MethodHead, q, nil, preferCount)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	contentRange := resp.Header.Get("Content-Range")
	_, total, found := strings.Cut(contentRange, "/")
	if !found || total == "*" {
		return 0, fmt.Errorf("CountStudents: unexpected Content-Range %q", contentRange)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("CountStudents: parse Content-Range: %w", err)
	}
	return n, nil
}

func idFilter(id int64) url.Values {
	return url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}}
}

// do sends one request. A non-2xx response is turned into a
// *storage.StoreError and the body is closed; on success the caller owns
// resp.Body.
func (c *Client) do(ctx context.Context, op, method string, query url.Values, body any, prefer string) (*http.Response, error) {
	endpoint := c.baseURL + "/" + c.table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	c.logger.Debug("store request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", endpoint))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", op, err)
	}

	c.logger.Debug("store response",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	return nil, decodeError(op, resp)
}

func decodeError(op string, resp *http.Response) *storage.StoreError {
	se := &storage.StoreError{
		Op:      op,
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return se
	}

	var body apiError
	if err := json.Unmarshal(raw, &body); err != nil {
		se.Message = strings.TrimSpace(string(raw))
		return se
	}
	se.Code = body.Code
	se.Details = body.Details
	se.Hint = body.Hint
	if body.Message != "" {
		se.Message = body.Message
	}
	return se
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}
