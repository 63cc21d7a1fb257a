package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/student-manager/internal/storage"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeAccessDenied, Outcome(&storage.StoreError{Code: storage.CodeInsufficientPrivilege}))
	assert.Equal(t, OutcomeAccessDenied, Outcome(fmt.Errorf("wrap: %w", &storage.StoreError{Code: storage.CodeJWT})))
	assert.Equal(t, OutcomeStoreError, Outcome(storage.NotFoundError("UpdateStudentByID", 3)))
	assert.Equal(t, OutcomeUnexpected, Outcome(errors.New("eof")))
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncNotification("success")
	m.IncNotification("success")
	m.IncNotification("error")
	m.ObserveStore("ListStudents", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreRequests.WithLabelValues("ListStudents", OutcomeOK)))
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
