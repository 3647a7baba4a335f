package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"task-manager/microservices/api-service/db"
	"task-manager/microservices/api-service/logging"
	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

// TaskService owns task reads/writes and the task side of the denormalized
// Task-User relationship. There is no multi-document transaction: each
// mutating operation captures the old state, performs the primary write, then
// issues idempotent compensating writes against the users collection. A
// compensating write that fails after the primary write succeeded is logged
// and never turns the already-committed operation into a failure.
type TaskService struct {
	tasks TaskStore
	users UserStore
}

func NewTaskService(tasks TaskStore, users UserStore) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

func (s *TaskService) ListTasks(ctx context.Context, spec *query.Spec) ([]bson.M, error) {
	return s.tasks.List(ctx, spec)
}

func (s *TaskService) CountTasks(ctx context.Context, spec *query.Spec) (int64, error) {
	return s.tasks.Count(ctx, spec)
}

func (s *TaskService) GetTask(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	return s.tasks.Get(ctx, id, projection)
}

// CreateTask validates and inserts a task, then links it into the assignee's
// pending set. A non-existent assignee is tolerated: the task is created as
// supplied and no linkage is attempted.
func (s *TaskService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.ApplyDefaults()

	taskID, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}

	if task.AssignedUser != "" && !task.Completed {
		user, err := s.users.FindByID(ctx, task.AssignedUser)
		switch {
		case errors.Is(err, db.ErrNotFound):
			// best-effort linkage: the task keeps the supplied assignedUserName
		case err != nil:
			logging.Logger.Errorf("Event ID: TASK_LINK_FAILED, Description: Assignee lookup failed after creating task %s: %v", taskID, err)
		default:
			s.linkTask(ctx, taskID, user)
			task.AssignedUserName = user.Name
		}
	}

	return task, nil
}

func (s *TaskService) linkTask(ctx context.Context, taskID string, user *models.User) {
	userID := user.ID.Hex()
	if err := s.users.AddPendingTask(ctx, userID, taskID); err != nil {
		logging.Logger.Errorf("Event ID: TASK_LINK_FAILED, Description: Failed to add task %s to pending tasks of user %s: %v", taskID, userID, err)
		return
	}
	if err := s.tasks.SetAssignment(ctx, []string{taskID}, userID, user.Name); err != nil {
		logging.Logger.Errorf("Event ID: TASK_LINK_FAILED, Description: Failed to set assignee name on task %s: %v", taskID, err)
	}
}

// UpdateTask replaces the mutable fields of a task. Omitted optional fields
// reset to their defaults. Preconditions are checked before any write: the
// task must exist and not be completed, and a newly supplied assignee must
// exist. After the primary write the assignee pending sets are reconciled.
func (s *TaskService) UpdateTask(ctx context.Context, id string, updated *models.Task) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, ErrTaskCompleted
	}

	if updated.AssignedUser != "" {
		if _, err := s.users.FindByID(ctx, updated.AssignedUser); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, err
		}
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	oldAssignedUser := task.AssignedUser
	oldCompleted := task.Completed

	task.Name = updated.Name
	task.Description = updated.Description
	task.Deadline = updated.Deadline
	task.Completed = updated.Completed
	task.AssignedUser = updated.AssignedUser
	task.AssignedUserName = updated.AssignedUserName
	if task.AssignedUserName == "" {
		task.AssignedUserName = models.UnassignedName
	}

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}

	if oldAssignedUser != "" && oldAssignedUser != task.AssignedUser {
		if err := s.users.RemovePendingTask(ctx, oldAssignedUser, id); err != nil {
			logging.Logger.Errorf("Event ID: TASK_UNLINK_FAILED, Description: Failed to remove task %s from pending tasks of user %s: %v", id, oldAssignedUser, err)
		}
	}

	if task.AssignedUser != "" && task.AssignedUser != oldAssignedUser {
		if err := s.users.AddPendingTask(ctx, task.AssignedUser, id); err != nil {
			logging.Logger.Errorf("Event ID: TASK_LINK_FAILED, Description: Failed to add task %s to pending tasks of user %s: %v", id, task.AssignedUser, err)
		}
	}

	// completing a task removes it from the pending set even when the
	// assignee did not change in the same request
	if !oldCompleted && task.Completed && task.AssignedUser != "" {
		if err := s.users.RemovePendingTask(ctx, task.AssignedUser, id); err != nil {
			logging.Logger.Errorf("Event ID: TASK_UNLINK_FAILED, Description: Failed to remove completed task %s from pending tasks of user %s: %v", id, task.AssignedUser, err)
		}
	}

	return task, nil
}

// DeleteTask removes a task, then pulls it from its assignee's pending set.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	if task.AssignedUser != "" {
		if err := s.users.RemovePendingTask(ctx, task.AssignedUser, id); err != nil {
			logging.Logger.Errorf("Event ID: TASK_UNLINK_FAILED, Description: Failed to remove deleted task %s from pending tasks of user %s: %v", id, task.AssignedUser, err)
		}
	}

	return nil
}
