package services

import "errors"

// Precondition failures checked before any write happens. Store-level kinds
// (not found, duplicate email) live in the db package; field validation
// failures are models.ValidationError.
var (
	// ErrTaskCompleted rejects edits to a task that is already completed.
	ErrTaskCompleted = errors.New("cannot update a completed task")
	// ErrAssigneeNotFound rejects a task update whose assignedUser does not exist.
	ErrAssigneeNotFound = errors.New("assigned user does not exist")
	// ErrPendingTaskNotFound rejects a user update whose pendingTasks reference
	// a task that does not exist.
	ErrPendingTaskNotFound = errors.New("one or more tasks do not exist")
)
