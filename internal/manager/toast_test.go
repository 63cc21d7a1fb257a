package manager_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-manager/internal/manager"
)

func TestToastsDrainInOrder(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q := manager.NewToasts(manager.WithClock(func() time.Time { return now }))

	assert.Equal(t, []manager.Toast{}, q.Drain())

	q.Success("first")
	q.Error("second")

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, manager.LevelSuccess, got[0].Level)
	assert.Equal(t, "first", got[0].Message)
	assert.Equal(t, manager.LevelError, got[1].Level)
	assert.Equal(t, "second", got[1].Message)
	assert.Equal(t, now, got[0].CreatedAt)
	assert.NotEqual(t, got[0].ID, got[1].ID)

	assert.Empty(t, q.Drain())
}

func TestToastsPendingDoesNotConsume(t *testing.T) {
	q := manager.NewToasts()
	q.Success("kept")

	assert.Len(t, q.Pending(), 1)
	assert.Len(t, q.Pending(), 1)
	assert.Len(t, q.Drain(), 1)
}

func TestToastsDismiss(t *testing.T) {
	q := manager.NewToasts()
	q.Success("a")
	q.Success("b")

	id := q.Pending()[0].ID
	assert.True(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(uuid.New()))

	left := q.Drain()
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].Message)
}

func TestToastsDropOldestWhenFull(t *testing.T) {
	q := manager.NewToasts()
	for i := range 60 {
		q.Error(fmt.Sprintf("msg %d", i))
	}

	got := q.Drain()
	require.Len(t, got, 50)
	assert.Equal(t, "msg 10", got[0].Message)
	assert.Equal(t, "msg 59", got[49].Message)
}

func TestToastsNotifyHook(t *testing.T) {
	var levels []manager.Level
	q := manager.NewToasts(manager.WithNotifyHook(func(l manager.Level) { levels = append(levels, l) }))

	q.Success("ok")
	q.Error("bad")

	assert.Equal(t, []manager.Level{manager.LevelSuccess, manager.LevelError}, levels)
}

func TestToastsIsNotifier(t *testing.T) {
	var _ manager.Notifier = manager.NewToasts()
}
