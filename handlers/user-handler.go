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

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetUsers lists users, or counts them when count=true. Unlike tasks, a user
// listing has no default limit.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query(), query.UsersDefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if spec.CountOnly {
		count, err := h.service.CountUsers(r.Context(), spec)
		if err != nil {
			logging.Logger.Errorf("Event ID: USER_COUNT_FAILED, Description: %v", err)
			writeError(w, http.StatusInternalServerError, "Error retrieving users")
			return
		}
		writeJSON(w, http.StatusOK, "OK", count)
		return
	}

	users, err := h.service.ListUsers(r.Context(), spec)
	if err != nil {
		logging.Logger.Errorf("Event ID: USER_LIST_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}
	writeJSON(w, http.StatusOK, "OK", users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := h.service.CreateUser(r.Context(), &user)
	if err != nil {
		var valErr *models.ValidationError
		switch {
		case errors.Is(err, db.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User with this email already exists")
		case errors.As(err, &valErr):
			writeError(w, http.StatusBadRequest, valErr.Error())
		default:
			logging.Logger.Errorf("Event ID: USER_CREATE_FAILED, Description: %v", err)
			writeError(w, http.StatusInternalServerError, "Error creating user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, "User created", created)
}

// GetUser reads a single user, honoring an optional select projection.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.service.GetUser(r.Context(), id, projection)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		logging.Logger.Errorf("Event ID: USER_GET_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving user")
		return
	}
	writeJSON(w, http.StatusOK, "OK", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), id, &user)
	if err != nil {
		var valErr *models.ValidationError
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrPendingTaskNotFound):
			writeError(w, http.StatusBadRequest, "One or more tasks do not exist")
		case errors.Is(err, db.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User with this email already exists")
		case errors.As(err, &valErr):
			writeError(w, http.StatusBadRequest, valErr.Error())
		default:
			logging.Logger.Errorf("Event ID: USER_UPDATE_FAILED, Description: %v", err)
			writeError(w, http.StatusInternalServerError, "Error updating user")
		}
		return
	}

	writeJSON(w, http.StatusOK, "User updated", updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		logging.Logger.Errorf("Event ID: USER_DELETE_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
