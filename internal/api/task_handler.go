package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// taskIDParam is the chi URL parameter holding a task ID.
const taskIDParam = "id"

// handlerComponent tags every log line from this component.
const handlerComponent = "task_handler"

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	validator   *RequestValidator
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		validator:   NewRequestValidator(),
		logger:      logger.With("component", handlerComponent),
	}
}

// RegisterRoutes mounts the task endpoints on r.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	fields, err := h.validator.ParseCreateTask(w, r)
	if err != nil {
		h.respondWithRequestError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), fields)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests.
// The body is validated before the task is looked up.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	update, err := h.validator.ParseUpdateTask(w, r)
	if err != nil {
		h.respondWithRequestError(w, r, err)
		return
	}

	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, update)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	task, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	logger.ForComponent(r.Context(), h.logger, handlerComponent).Debug("task deleted via API",
		"task_id", task.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: msgTaskDeleted})
}

// getPathUUID extracts and parses a UUID path parameter.
// Missing or malformed values wrap domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// respondWithRequestError reports a request body that could not be decoded or validated.
func (h *TaskHandler) respondWithRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		shared.RespondWithValidationErrors(w, r, verr.Fields)
		return
	}
	h.respondWithServiceError(w, r, err)
}

// respondWithServiceError maps err to a status code and a safe message.
func (h *TaskHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if errors.Is(err, domain.ErrValidation) {
		// The validator should have caught this before the service did.
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
