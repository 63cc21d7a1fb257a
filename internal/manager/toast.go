package manager

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is a toast's severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// ToastDuration is how long the page keeps a toast on screen.
const ToastDuration = 3 * time.Second

const maxPendingToasts = 50

// Toast is one queued notification.
type Toast struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Toasts is a Notifier that queues messages until the page renders them.
// When more than maxPendingToasts are waiting the oldest are dropped.
type Toasts struct {
	mu       sync.Mutex
	items    []Toast
	now      func() time.Time
	onNotify func(Level)
}

// ToastsOption configures a Toasts queue.
type ToastsOption func(*Toasts)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ToastsOption {
	return func(t *Toasts) { t.now = now }
}

// WithNotifyHook is called with the level of every queued toast.
func WithNotifyHook(fn func(Level)) ToastsOption {
	return func(t *Toasts) { t.onNotify = fn }
}

// NewToasts returns an empty queue.
func NewToasts(opts ...ToastsOption) *Toasts {
	t := &Toasts{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Toasts) Success(msg string) { t.push(LevelSuccess, msg) }

func (t *Toasts) Error(msg string) { t.push(LevelError, msg) }

func (t *Toasts) push(level Level, msg string) {
	t.mu.Lock()
	t.items = append(t.items, Toast{
		ID:        uuid.New(),
		Level:     level,
		Message:   msg,
		CreatedAt: t.now(),
	})
	if over := len(t.items) - maxPendingToasts; over > 0 {
		t.items = append([]Toast(nil), t.items[over:]...)
	}
	t.mu.Unlock()

	if t.onNotify != nil {
		t.onNotify(level)
	}
}

// Pending returns the queued toasts without removing them.
func (t *Toasts) Pending() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

// Drain returns the queued toasts oldest first and empties the queue.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.items
	t.items = nil
	if out == nil {
		out = []Toast{}
	}
	return out
}

// Dismiss removes one toast. It reports whether the id was queued.
func (t *Toasts) Dismiss(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}
