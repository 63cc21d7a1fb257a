package manager_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-manager/internal/manager"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest/postgresttest"
	"github.com/aanand-mishra/student-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/student-manager/internal/types"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func messages(toasts []manager.Toast) []string {
	out := make([]string, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, string(t.Level)+": "+t.Message)
	}
	return out
}

// runLifecycle walks one record through add, edit and delete.
func runLifecycle(t *testing.T, store storage.Storage) {
	t.Helper()
	ctx := context.Background()

	toasts := manager.NewToasts()
	m, err := manager.New(store, toasts, manager.WithLogger(discard()))
	require.NoError(t, err)

	m.Initialize(ctx)
	assert.Empty(t, m.Snapshot().Records)
	assert.Empty(t, toasts.Drain(), "empty store loads silently")

	m.SetDraft(types.Draft{Name: "Ada", Email: "a@x.com", PhoneNumber: "1", Gender: types.GenderFemale})
	m.Submit(ctx)

	st := m.Snapshot()
	require.Len(t, st.Records, 1)
	ada := st.Records[0]
	assert.NotZero(t, ada.ID)
	assert.Equal(t, "Ada", ada.Name)
	assert.Equal(t, types.EmptyDraft(), st.Draft)
	assert.Equal(t, []string{
		"success: " + manager.MsgAdded,
		"success: Loaded 1 student(s)",
	}, messages(toasts.Drain()))

	m.EditRequested(ada)
	require.NoError(t, m.SetField("phone_number", "999"))
	m.Submit(ctx)

	st = m.Snapshot()
	require.Len(t, st.Records, 1)
	assert.Equal(t, "999", st.Records[0].PhoneNumber)
	assert.Equal(t, ada.ID, st.Records[0].ID)
	assert.Equal(t, manager.Creating(), st.Mode)
	assert.Equal(t, []string{
		"success: " + manager.MsgUpdated,
		"success: Loaded 1 student(s)",
	}, messages(toasts.Drain()))

	m.DeleteRequested(ctx, ada.ID, manager.Answer(true))

	assert.Empty(t, m.Snapshot().Records)
	assert.Equal(t, []string{"success: " + manager.MsgDeleted}, messages(toasts.Drain()))
}

func TestLifecycleOverPostgREST(t *testing.T) {
	srv := postgresttest.NewServer(t)
	client, err := postgrest.New(srv.URL, postgresttest.APIKey, time.Second, postgrest.WithLogger(discard()))
	require.NoError(t, err)

	runLifecycle(t, client)

	assert.Equal(t, []string{
		http.MethodHead, http.MethodGet,
		http.MethodPost, http.MethodGet,
		http.MethodPatch, http.MethodGet,
		http.MethodDelete, http.MethodGet,
	}, srv.Methods())

	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost {
			assert.NotContains(t, r.Body, "id", "insert must let the store assign the id")
		}
	}
}

func TestLifecycleOverSQLite(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runLifecycle(t, db)
}

func TestWrongKeyReportsAccessDenied(t *testing.T) {
	srv := postgresttest.NewServer(t)
	client, err := postgrest.New(srv.URL, "wrong-key", time.Second)
	require.NoError(t, err)

	toasts := manager.NewToasts()
	m, err := manager.New(client, toasts, manager.WithLogger(discard()))
	require.NoError(t, err)

	m.Initialize(context.Background())

	assert.Equal(t, []string{
		"error: " + manager.MsgConnectionFailed,
		"error: " + manager.MsgAccessDenied,
	}, messages(toasts.Drain()))
}

func TestUpdateOfVanishedRecordReportsNotFound(t *testing.T) {
	srv := postgresttest.NewServer(t)
	client, err := postgrest.New(srv.URL, postgresttest.APIKey, time.Second)
	require.NoError(t, err)

	toasts := manager.NewToasts()
	m, err := manager.New(client, toasts, manager.WithLogger(discard()))
	require.NoError(t, err)

	m.EditRequested(types.Student{ID: 42, Name: "Gone", Email: "gone@x.com", PhoneNumber: "1", Gender: types.GenderMale})
	m.Submit(context.Background())

	got := messages(toasts.Drain())
	require.NotEmpty(t, got)
	assert.Equal(t, "error: Failed to update: no student found with id: 42", got[0])
	assert.Equal(t, manager.Editing(42), m.Snapshot().Mode)
}

func TestSubmitSurvivesCancelledContext(t *testing.T) {
	srv := postgresttest.NewServer(t)
	client, err := postgrest.New(srv.URL, postgresttest.APIKey, time.Second)
	require.NoError(t, err)

	m, err := manager.New(client, manager.NewToasts(), manager.WithLogger(discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.SetDraft(types.Draft{Name: "Ada", Email: "a@x.com", PhoneNumber: "1", Gender: types.GenderFemale})
	m.Submit(ctx)

	assert.Len(t, srv.Rows(), 1)
	assert.Len(t, m.Snapshot().Records, 1)
}
