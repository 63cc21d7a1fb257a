// Package instrumented decorates a storage.Storage with Prometheus
// metrics and debug logging. It adds no behaviour: every call goes
// straight through and its result is returned unchanged.
package instrumented

import (
	"context"
	"log/slog"
	"time"

	"github.com/aanand-mishra/student-manager/internal/metrics"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
)

// Store wraps another Storage.
type Store struct {
	next    storage.Storage
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New wraps next.
func New(next storage.Storage, m *metrics.Metrics, logger *slog.Logger) *Store {
	return &Store{next: next, metrics: m, logger: logger}
}

func (s *Store) observe(op string, start time.Time, err error) {
	s.metrics.ObserveStore(op, start, err)
	if err != nil {
		s.logger.Error("store call failed",
			slog.String("op", op),
			slog.String("outcome", metrics.Outcome(err)),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("store call", slog.String("op", op), slog.Duration("took", time.Since(start)))
}

func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	start := time.Now()
	students, err := s.next.ListStudents(ctx)
	s.observe("ListStudents", start, err)
	return students, err
}

func (s *Store) CreateStudent(ctx context.Context, student types.StudentInsert) error {
	start := time.Now()
	err := s.next.CreateStudent(ctx, student)
	s.observe("CreateStudent", start, err)
	return err
}

func (s *Store) UpdateStudentByID(ctx context.Context, id int64, student types.StudentUpdate) error {
	start := time.Now()
	err := s.next.UpdateStudentByID(ctx, id, student)
	s.observe("UpdateStudentByID", start, err)
	return err
}

func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.DeleteStudentByID(ctx, id)
	s.observe("DeleteStudentByID", start, err)
	return err
}

func (s *Store) CountStudents(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.next.CountStudents(ctx)
	s.observe("CountStudents", start, err)
	return n, err
}
