// Package manager is the controller behind the students page. It owns the
// record list, the form draft and the editing marker, calls the store for
// each user action and reports every outcome through a Notifier.
//
// The store is the only source of truth: after any write the whole list
// is fetched again and replaces the in-memory copy.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
	"github.com/aanand-mishra/student-manager/internal/utils/validate"
)

// Mode says what the next submit does: create a new record, or update
// the one being edited.
type Mode struct {
	editing bool
	id      int64
}

// Creating is the default mode.
func Creating() Mode { return Mode{} }

// Editing targets the record with the given id.
func Editing(id int64) Mode { return Mode{editing: true, id: id} }

// EditingID returns the targeted id, if any.
func (m Mode) EditingID() (int64, bool) { return m.id, m.editing }

func (m Mode) String() string {
	if m.editing {
		return fmt.Sprintf("editing(%d)", m.id)
	}
	return "creating"
}

// State is a point-in-time copy of what the page renders.
type State struct {
	Records []types.Student
	Draft   types.Draft
	Mode    Mode
}

// Manager serialises access to the page state. The lock is never held
// across a store call, so overlapping operations resolve in whatever
// order the store answers and the last reload to finish wins.
type Manager struct {
	store  storage.Storage
	notify Notifier
	logger *slog.Logger

	mu      sync.Mutex
	records []types.Student
	draft   types.Draft
	mode    Mode
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New builds a Manager in Creating mode with an empty draft.
func New(store storage.Storage, notify Notifier, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if notify == nil {
		return nil, errors.New("notifier is required")
	}

	m := &Manager{
		store:   store,
		notify:  notify,
		logger:  slog.Default(),
		records: make([]types.Student, 0),
		draft:   types.EmptyDraft(),
		mode:    Creating(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]types.Student, len(m.records))
	copy(records, m.records)
	return State{Records: records, Draft: m.draft, Mode: m.mode}
}

// Record looks id up in the currently loaded list.
func (m *Manager) Record(id int64) (types.Student, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ID == id {
			return r, true
		}
	}
	return types.Student{}, false
}

// Initialize probes the store and then loads the list. A failed probe is
// reported but does not stop the load.
func (m *Manager) Initialize(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	m.logger.Info("testing store connection")
	if _, err := m.store.CountStudents(ctx); err != nil {
		m.logger.Error("connection test failed", slog.String("error", err.Error()))
		m.notify.Error(MsgConnectionFailed)
	} else {
		m.logger.Info("connection successful")
	}

	m.Reload(ctx)
}

// Reload replaces the list with the store's contents. On failure the
// previous list is kept.
func (m *Manager) Reload(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	students, err := m.store.ListStudents(ctx)
	if err != nil {
		m.logger.Error("error fetching students", slog.String("error", err.Error()))
		m.notify.Error(Describe(OpFetch, err))
		return
	}
	if students == nil {
		students = make([]types.Student, 0)
	}

	m.mu.Lock()
	m.records = students
	m.mu.Unlock()

	m.logger.Debug("fetched students", slog.Int("count", len(students)))
	if len(students) > 0 {
		m.notify.Success(fmt.Sprintf(MsgLoaded, len(students)))
	}
}

// SetDraft replaces the whole draft.
func (m *Manager) SetDraft(d types.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = d
}

// SetField changes one draft field. Unknown field names are rejected.
func (m *Manager) SetField(field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch field {
	case "name":
		m.draft.Name = value
	case "email":
		m.draft.Email = value
	case "phone_number":
		m.draft.PhoneNumber = value
	case "gender":
		m.draft.Gender = types.Gender(value)
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

// EditRequested loads s into the draft and targets it for the next
// submit. A record without an id only fills the draft.
func (m *Manager) EditRequested(s types.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = types.DraftFrom(s)
	if s.ID != 0 {
		m.mode = Editing(s.ID)
	}
}

// CancelEdit returns to Creating mode with an empty draft.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mode = Creating()
	m.draft = types.EmptyDraft()
}

// Submit validates the draft and then updates the targeted record or
// inserts a new one. The list is reloaded afterwards either way.
//
// A failed update keeps the draft and the editing marker so the user can
// retry; a failed insert clears the draft like a successful one.
func (m *Manager) Submit(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	m.mu.Lock()
	draft, mode := m.draft, m.mode
	m.mu.Unlock()

	if err := validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			m.notify.Error(MsgInvalidForm + validate.Message(verrs))
		} else {
			m.notify.Error(MsgInvalidForm + err.Error())
		}
		return
	}

	if id, editing := mode.EditingID(); editing {
		m.logger.Info("updating student", slog.Int64("id", id))
		if err := m.store.UpdateStudentByID(ctx, id, draft.Update()); err != nil {
			m.notify.Error(Describe(OpUpdate, err))
		} else {
			m.notify.Success(MsgUpdated)
			m.mu.Lock()
			m.mode = Creating()
			m.draft = types.EmptyDraft()
			m.mu.Unlock()
		}
	} else {
		m.logger.Info("creating student", slog.String("email", draft.Email))
		if err := m.store.CreateStudent(ctx, draft.Insert()); err != nil {
			m.notify.Error(Describe(OpCreate, err))
		} else {
			m.notify.Success(MsgAdded)
		}
		m.mu.Lock()
		m.draft = types.EmptyDraft()
		m.mu.Unlock()
	}

	m.Reload(ctx)
}

// DeleteRequested asks c for confirmation and, if given, deletes id and
// reloads. Declining issues no store call.
func (m *Manager) DeleteRequested(ctx context.Context, id int64, c Confirmer) {
	ok, err := c.Confirm(ctx, DeletePrompt)
	if err != nil {
		m.logger.Warn("delete confirmation failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return
	}
	if !ok {
		m.logger.Debug("delete declined", slog.Int64("id", id))
		return
	}

	ctx = context.WithoutCancel(ctx)
	m.logger.Info("deleting student", slog.Int64("id", id))
	if err := m.store.DeleteStudentByID(ctx, id); err != nil {
		m.notify.Error(Describe(OpDelete, err))
		return
	}

	m.notify.Success(MsgDeleted)
	m.Reload(ctx)
}
