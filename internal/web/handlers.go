package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/errors"
	"task-tracker/internal/metrics"
	"task-tracker/internal/services"
	"task-tracker/internal/validation"
)

// Handler serves the task pages
type Handler struct {
	tasks          services.TaskService
	renderer       *Renderer
	log            *logrus.Logger
	metrics        *metrics.Metrics
	csrf           Middleware
	titleMaxLength int
}

// HandlerOption customises a Handler
type HandlerOption func(*Handler)

// WithLogger sets the logger used for request failures
func WithLogger(log *logrus.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMetrics enables request instrumentation
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithTitleMaxLength sets the limit advertised on the form inputs
func WithTitleMaxLength(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.titleMaxLength = n
		}
	}
}

// NewHandler creates the page handlers on top of a task service
func NewHandler(tasks services.TaskService, opts ...HandlerOption) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		tasks:          tasks,
		renderer:       renderer,
		log:            logrus.StandardLogger(),
		titleMaxLength: validation.DefaultTitleMaxLength,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// List renders every task
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageList, listPage{Tasks: tasks})
}

// Detail renders one task
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageDetail, detailPage{Task: task, CSRFToken: csrf.Token(r)})
}

// New renders an empty create form
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New task", "/new/", validation.TaskForm{}, nil)
}

// Create validates and stores a submitted task
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.tasks.CreateTask(r.Context(), form); err != nil {
		if fields := fieldErrors(err); fields != nil {
			h.renderForm(w, r, "New task", "/new/", form, fields)
			return
		}
		h.fail(w, r, err)
		return
	}

	h.mutated(metrics.OpCreate)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Edit renders the update form pre-filled from the stored task
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderForm(w, r, "Edit task", updatePath(id), validation.FormFromTask(*task), nil)
}

// Update validates a submitted form and rewrites the stored task
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// A missing task is reported before the form is looked at
	if _, err := h.tasks.GetTask(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	form, err := parseForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.tasks.UpdateTask(r.Context(), id, form); err != nil {
		if fields := fieldErrors(err); fields != nil {
			h.renderForm(w, r, "Edit task", updatePath(id), form, fields)
			return
		}
		h.fail(w, r, err)
		return
	}

	h.mutated(metrics.OpUpdate)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Delete removes a task without confirmation
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.mutated(metrics.OpDelete)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Healthz reports whether the store is reachable
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.tasks.Healthy(r.Context()); err != nil {
		h.log.WithError(err).Warn("health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable\n"))
		return
	}
	w.Write([]byte("ok\n"))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, heading, action string, form validation.TaskForm, fields map[string][]string) {
	h.render(w, r, http.StatusOK, pageForm, formPage{
		Heading:        heading,
		Action:         action,
		Form:           form,
		Errors:         fields,
		TitleMaxLength: h.titleMaxLength,
		CSRFToken:      csrf.Token(r),
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data interface{}) {
	if err := h.renderer.Render(w, status, page, data); err != nil {
		h.log.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"page":       page,
		}).WithError(err).Error("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail renders the error page for err and logs system failures
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	entry := h.log.WithFields(logrus.Fields{
		"request_id": RequestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"code":       errors.GetErrorCode(err),
	}).WithError(err)

	if errors.ShouldLogError(err) {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	if h.metrics != nil {
		h.metrics.RequestError(routeLabel(r.Pattern), errorType(err))
	}

	h.render(w, r, status, pageError, errorPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    pageMessage(status, err),
		RequestID:  RequestIDFrom(r.Context()),
	})
}

func (h *Handler) mutated(op string) {
	if h.metrics != nil {
		h.metrics.TaskMutation(op)
	}
}

// pathID parses the {id} wildcard. Anything other than a positive integer
// is reported as invalid input, which renders as not found.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", "must be a positive integer")
	}
	return id, nil
}

func parseForm(r *http.Request) (validation.TaskForm, error) {
	if err := r.ParseForm(); err != nil {
		return validation.TaskForm{}, errors.NewValidationError("malformed form body", err)
	}
	return validation.TaskForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}, nil
}

func updatePath(id int64) string {
	return "/" + strconv.FormatInt(id, 10) + "/update/"
}
