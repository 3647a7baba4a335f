package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

// TaskStore and UserStore are the storage capabilities the services run on.
// The db package provides the MongoDB implementations; tests substitute
// in-memory fakes. Every method is a single-document (or single bulk-update)
// operation, which is what keeps the compensating writes idempotent.

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) (string, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	CountByIDs(ctx context.Context, ids []string) (int64, error)
	SetAssignment(ctx context.Context, ids []string, userID, userName string) error
	ClearAssignment(ctx context.Context, ids []string) error
	List(ctx context.Context, spec *query.Spec) ([]bson.M, error)
	Count(ctx context.Context, spec *query.Spec) (int64, error)
	Get(ctx context.Context, id string, projection bson.M) (bson.M, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) (string, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Replace(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	AddPendingTask(ctx context.Context, userID, taskID string) error
	RemovePendingTask(ctx context.Context, userID, taskID string) error
	List(ctx context.Context, spec *query.Spec) ([]bson.M, error)
	Count(ctx context.Context, spec *query.Spec) (int64, error)
	Get(ctx context.Context, id string, projection bson.M) (bson.M, error)
}
