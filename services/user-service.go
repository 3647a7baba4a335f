package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"task-manager/microservices/api-service/logging"
	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

// UserService owns user reads/writes and the user side of the denormalized
// Task-User relationship. Updating or deleting a user reconciles the tasks
// whose assignment the change invalidated, through the same
// capture-write-compensate sequence TaskService uses.
type UserService struct {
	users UserStore
	tasks TaskStore
}

func NewUserService(users UserStore, tasks TaskStore) *UserService {
	return &UserService{users: users, tasks: tasks}
}

func (s *UserService) ListUsers(ctx context.Context, spec *query.Spec) ([]bson.M, error) {
	return s.users.List(ctx, spec)
}

func (s *UserService) CountUsers(ctx context.Context, spec *query.Spec) (int64, error) {
	return s.users.Count(ctx, spec)
}

func (s *UserService) GetUser(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	return s.users.Get(ctx, id, projection)
}

// CreateUser validates and inserts a user. A pendingTasks list supplied at
// creation is stored as-is; reconciliation with the tasks collection only
// happens on update and delete.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	user.ApplyDefaults()

	if _, err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces the user's fields, including the whole pendingTasks
// set. Every id in the new set must reference an existing task before any
// write happens. After the primary write, tasks dropped from the set are
// reset to the unassigned defaults and tasks added to it are pointed at this
// user; ids present in both sets are left untouched.
func (s *UserService) UpdateUser(ctx context.Context, id string, updated *models.User) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPending := user.PendingTasks
	newPending := updated.PendingTasks
	if newPending == nil {
		newPending = []string{}
	}

	if len(newPending) > 0 {
		count, err := s.tasks.CountByIDs(ctx, newPending)
		if err != nil {
			return nil, err
		}
		if count != int64(len(newPending)) {
			return nil, ErrPendingTaskNotFound
		}
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	user.Name = updated.Name
	user.Email = updated.Email
	user.PendingTasks = newPending

	if err := s.users.Replace(ctx, user); err != nil {
		return nil, err
	}

	removed := difference(oldPending, newPending)
	added := difference(newPending, oldPending)

	if len(removed) > 0 {
		if err := s.tasks.ClearAssignment(ctx, removed); err != nil {
			logging.Logger.Errorf("Event ID: TASK_UNLINK_FAILED, Description: Failed to unassign tasks %v removed from user %s: %v", removed, id, err)
		}
	}
	if len(added) > 0 {
		if err := s.tasks.SetAssignment(ctx, added, id, user.Name); err != nil {
			logging.Logger.Errorf("Event ID: TASK_LINK_FAILED, Description: Failed to assign tasks %v added to user %s: %v", added, id, err)
		}
	}

	return user, nil
}

// DeleteUser removes a user, then resets every task it had pending to the
// unassigned defaults.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if len(user.PendingTasks) > 0 {
		if err := s.tasks.ClearAssignment(ctx, user.PendingTasks); err != nil {
			logging.Logger.Errorf("Event ID: TASK_UNLINK_FAILED, Description: Failed to unassign pending tasks of deleted user %s: %v", id, err)
		}
	}

	return nil
}

// difference returns the elements of a that are not in b.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	var result []string
	for _, id := range a {
		if !inB[id] {
			result = append(result, id)
		}
	}
	return result
}
