package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"task-manager/microservices/api-service/db"
	"task-manager/microservices/api-service/logging"
	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
	"task-manager/microservices/api-service/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetTasks lists tasks, or counts them when count=true. Without an explicit
// limit the listing is capped at 100 documents.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query(), query.TasksDefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if spec.CountOnly {
		count, err := h.service.CountTasks(r.Context(), spec)
		if err != nil {
			logging.Logger.Errorf("Event ID: TASK_COUNT_FAILED, Description: %v", err)
			writeError(w, http.StatusInternalServerError, "Error retrieving tasks")
			return
		}
		writeJSON(w, http.StatusOK, "OK", count)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), spec)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_LIST_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving tasks")
		return
	}
	writeJSON(w, http.StatusOK, "OK", tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := h.service.CreateTask(r.Context(), &task)
	if err != nil {
		var valErr *models.ValidationError
		if errors.As(err, &valErr) {
			writeError(w, http.StatusBadRequest, valErr.Error())
			return
		}
		logging.Logger.Errorf("Event ID: TASK_CREATE_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error creating task")
		return
	}

	writeJSON(w, http.StatusCreated, "Task created", created)
}

// GetTask reads a single task, honoring an optional select projection.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var projection map[string]interface{}
	if raw := r.URL.Query().Get("select"); raw != "" {
		parsed, err := query.Projection(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		projection = parsed
	}

	task, err := h.service.GetTask(r.Context(), id, projection)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		logging.Logger.Errorf("Event ID: TASK_GET_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving task")
		return
	}
	writeJSON(w, http.StatusOK, "OK", task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), id, &task)
	if err != nil {
		var valErr *models.ValidationError
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, services.ErrTaskCompleted):
			writeError(w, http.StatusBadRequest, "Cannot update a completed task")
		case errors.Is(err, services.ErrAssigneeNotFound):
			writeError(w, http.StatusBadRequest, "Assigned user does not exist")
		case errors.As(err, &valErr):
			writeError(w, http.StatusBadRequest, valErr.Error())
		default:
			logging.Logger.Errorf("Event ID: TASK_UPDATE_FAILED, Description: %v", err)
			writeError(w, http.StatusInternalServerError, "Error updating task")
		}
		return
	}

	writeJSON(w, http.StatusOK, "Task updated", updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		logging.Logger.Errorf("Event ID: TASK_DELETE_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error deleting task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
