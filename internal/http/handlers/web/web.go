// Package web serves the students page: a server-rendered form and table
// driven by a manager.Manager. Every action is a POST that redirects back
// to the page, and the toasts queued meanwhile are shown on the next render.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aanand-mishra/student-manager/internal/manager"
	"github.com/aanand-mishra/student-manager/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler holds the page's dependencies.
type Handler struct {
	mgr     *manager.Manager
	toasts  *manager.Toasts
	page    *template.Template
	confirm *template.Template
	logger  *slog.Logger
}

type layoutData struct {
	Toasts      []manager.Toast
	ToastMillis int64
}

type pageData struct {
	layoutData
	State   manager.State
	Editing bool
	Genders []types.Gender
}

type confirmData struct {
	layoutData
	ID      int64
	Prompt  manager.Prompt
	Student *types.Student
}

// NewHandler parses the embedded templates.
func NewHandler(mgr *manager.Manager, toasts *manager.Toasts, logger *slog.Logger) (*Handler, error) {
	funcs := template.FuncMap{"title": title}

	page, err := template.New("page").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	confirm, err := template.New("confirm").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/confirm.html")
	if err != nil {
		return nil, fmt.Errorf("parse confirm template: %w", err)
	}

	return &Handler{
		mgr:     mgr,
		toasts:  toasts,
		page:    page,
		confirm: confirm,
		logger:  logger,
	}, nil
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.Index)
	router.Post("/students", h.Submit)
	router.Get("/students/{id}/edit", h.Edit)
	router.Get("/students/{id}/delete", h.ConfirmDelete)
	router.Post("/students/{id}/delete", h.Delete)
	router.Post("/cancel", h.Cancel)
	router.Post("/reload", h.Reload)
	router.Post("/toasts/{id}/dismiss", h.DismissToast)
}

// Index renders the form, the table and any queued toasts.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	st := h.mgr.Snapshot()
	_, editing := st.Mode.EditingID()

	h.render(w, h.page, pageData{
		layoutData: h.layout(),
		State:      st,
		Editing:    editing,
		Genders:    types.Genders,
	})
}

// Submit stages the posted form as the draft and submits it.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mgr.SetDraft(types.Draft{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phone_number")),
		Gender:      types.Gender(r.PostFormValue("gender")),
	})
	h.mgr.Submit(r.Context())

	redirectHome(w, r)
}

// Edit loads a listed record into the form. Ids not in the current list
// are ignored.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if s, found := h.mgr.Record(id); found {
		h.mgr.EditRequested(s)
	} else {
		h.logger.Warn("edit requested for unknown student", slog.Int64("id", id))
	}
	redirectHome(w, r)
}

// Cancel leaves edit mode and clears the form.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.mgr.CancelEdit()
	redirectHome(w, r)
}

// ConfirmDelete renders the confirmation dialog. Nothing is sent to the
// store until the dialog is answered.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data := confirmData{layoutData: h.layout(), ID: id, Prompt: manager.DeletePrompt}
	if s, found := h.mgr.Record(id); found {
		data.Student = &s
	}
	h.render(w, h.confirm, data)
}

// Delete receives the dialog's answer.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	answer := manager.Answer(r.PostFormValue("confirm") == "yes")
	h.mgr.DeleteRequested(r.Context(), id, answer)
	redirectHome(w, r)
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.mgr.Reload(r.Context())
	redirectHome(w, r)
}

// DismissToast drops a queued toast. 204 when it was queued, 404 if not.
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid toast id", http.StatusBadRequest)
		return
	}
	if !h.toasts.Dismiss(id) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) layout() layoutData {
	return layoutData{
		Toasts:      h.toasts.Drain(),
		ToastMillis: manager.ToastDuration.Milliseconds(),
	}
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (h *Handler) render(w http.ResponseWriter, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render page", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id: must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func title(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
