package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sun1tar/todo-app/services/todo/internal/service"
	"github.com/sun1tar/todo-app/shared/middleware"
)

// BasePath - корень REST API
const BasePath = "/api/todo"

type TodoHandler struct {
	todoService *service.TodoService
	logger      *logrus.Logger
}

func NewTodoHandler(ts *service.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: ts,
		logger:      logger,
	}
}

// maxBodyBytes - предел тела POST и PUT
const maxBodyBytes = 64 << 10

// Register вешает маршруты на mux. Коллекция доступна и со слешем на конце.
func (h *TodoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+BasePath, h.ListTodos)
	mux.HandleFunc("GET "+BasePath+"/{$}", h.ListTodos)
	mux.HandleFunc("GET "+BasePath+"/{id}", h.GetTodo)
	mux.HandleFunc("POST "+BasePath, h.CreateTodo)
	mux.HandleFunc("POST "+BasePath+"/{$}", h.CreateTodo)
	mux.HandleFunc("PUT "+BasePath+"/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE "+BasePath+"/{id}", h.DeleteTodo)
	mux.HandleFunc("PATCH "+BasePath+"/{id}/toggle", h.ToggleTodo)
}

// Тело POST и PUT. id и createdAt из тела игнорируются.
type todoRequest struct {
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

type problemResponse struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors"`
}

func (h *TodoHandler) entry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

// ListTodos обрабатывает GET /api/todo
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ListTodos")

	todos, err := h.todoService.List(r.Context())
	if err != nil {
		h.internalError(w, logEntry, err, "failed to list todos")
		return
	}

	logEntry.WithField("count", len(todos)).Debug("todos listed")
	writeJSON(w, http.StatusOK, todos)
}

// GetTodo обрабатывает GET /api/todo/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "GetTodo")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.GetByID(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		logEntry.WithField("todo_id", id).Warn("todo not found")
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, logEntry, err, "failed to get todo")
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// CreateTodo обрабатывает POST /api/todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "CreateTodo")

	req, ok := h.decodeRequest(w, r, logEntry)
	if !ok {
		return
	}

	todo, err := h.todoService.Create(r.Context(), req.Title, req.IsCompleted)
	if h.writeValidation(w, logEntry, err) {
		return
	}
	if err != nil {
		h.internalError(w, logEntry, err, "failed to create todo")
		return
	}

	logEntry.WithField("todo_id", todo.ID).Info("todo created successfully")
	w.Header().Set("Location", fmt.Sprintf("%s/%d", BasePath, todo.ID))
	writeJSON(w, http.StatusCreated, todo)
}

// UpdateTodo обрабатывает PUT /api/todo/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "UpdateTodo")

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeRequest(w, r, logEntry)
	if !ok {
		return
	}

	todo, err := h.todoService.Update(r.Context(), id, req.Title, req.IsCompleted)
	if h.writeValidation(w, logEntry, err) {
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		logEntry.WithField("todo_id", id).Warn("todo not found for update")
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, logEntry, err, "failed to update todo")
		return
	}

	logEntry.WithField("todo_id", id).Info("todo updated successfully")
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo обрабатывает DELETE /api/todo/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "DeleteTodo")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := h.todoService.Delete(r.Context(), id)
	if err != nil {
		h.internalError(w, logEntry, err, "failed to delete todo")
		return
	}
	if !removed {
		logEntry.WithField("todo_id", id).Warn("todo not found for deletion")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	logEntry.WithField("todo_id", id).Info("todo deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTodo обрабатывает PATCH /api/todo/{id}/toggle
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ToggleTodo")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.Toggle(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		logEntry.WithField("todo_id", id).Warn("todo not found for toggle")
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(w, logEntry, err, "failed to toggle todo")
		return
	}

	logEntry.WithFields(logrus.Fields{
		"todo_id":      id,
		"is_completed": todo.IsCompleted,
	}).Info("todo toggled")
	writeJSON(w, http.StatusOK, todo)
}

// Healthz - проверка живости для оркестратора
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest читает тело (ровно один JSON-объект) и проверяет заголовок до вызова сервиса
func (h *TodoHandler) decodeRequest(w http.ResponseWriter, r *http.Request, logEntry *logrus.Entry) (todoRequest, bool) {
	var req todoRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&req)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON object")
		}
	}
	if err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		writeProblem(w, service.NewValidationError("body", "The request body must be a single JSON object."))
		return req, false
	}
	if err := service.ValidateTitle(req.Title); h.writeValidation(w, logEntry, err) {
		return req, false
	}
	return req, true
}

func (h *TodoHandler) writeValidation(w http.ResponseWriter, logEntry *logrus.Entry, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	logEntry.WithField("errors", verr.Errors).Warn("validation failed")
	writeProblem(w, verr)
	return true
}

func (h *TodoHandler) internalError(w http.ResponseWriter, logEntry *logrus.Entry, err error, msg string) {
	logEntry.WithError(err).Error(msg)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeProblem(w, service.NewValidationError("id", fmt.Sprintf("The value '%s' is not valid.", r.PathValue("id"))))
		return 0, false
	}
	return id, true
}

func writeProblem(w http.ResponseWriter, verr *service.ValidationError) {
	writeJSON(w, http.StatusBadRequest, problemResponse{
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: verr.Errors,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
