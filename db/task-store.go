package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

// TaskStore performs single-document operations on the tasks collection.
type TaskStore struct {
	store *Store
	coll  *mongo.Collection
}

func NewTaskStore(store *Store) *TaskStore {
	return &TaskStore{
		store: store,
		coll:  store.database.Collection(tasksCollection),
	}
}

func (t *TaskStore) Insert(ctx context.Context, task *models.Task) (string, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	_, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return t.coll.InsertOne(ctx, task)
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}
	return task.ID.Hex(), nil
}

func (t *TaskStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		var task models.Task
		if err := t.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&task); err != nil {
			return nil, err
		}
		return &task, nil
	})
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return result.(*models.Task), nil
}

func (t *TaskStore) Replace(ctx context.Context, task *models.Task) error {
	result, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return t.coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *TaskStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return t.coll.DeleteOne(ctx, bson.M{"_id": oid})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByIDs reports how many of the given task ids exist. Ids that are not
// valid object ids cannot match and are dropped from the filter, so callers
// comparing against len(ids) still detect them as missing.
func (t *TaskStore) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)

	result, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return t.coll.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": oids}})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return result.(int64), nil
}

// SetAssignment points every given task at the user. The $set is idempotent,
// so a retried compensating write is safe.
func (t *TaskStore) SetAssignment(ctx context.Context, ids []string, userID, userName string) error {
	return t.assign(ctx, ids, userID, userName)
}

// ClearAssignment resets every given task to the unassigned defaults.
func (t *TaskStore) ClearAssignment(ctx context.Context, ids []string) error {
	return t.assign(ctx, ids, "", models.UnassignedName)
}

func (t *TaskStore) assign(ctx context.Context, ids []string, userID, userName string) error {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil
	}

	_, err := t.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return t.coll.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": oids}},
			bson.M{"$set": bson.M{"assignedUser": userID, "assignedUserName": userName}},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to update task assignment: %w", err)
	}
	return nil
}

func (t *TaskStore) List(ctx context.Context, spec *query.Spec) ([]bson.M, error) {
	return runFind(ctx, t.store, t.coll, spec)
}

func (t *TaskStore) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	return runCount(ctx, t.store, t.coll, spec)
}

func (t *TaskStore) Get(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	return findByIDProjected(ctx, t.store, t.coll, id, projection)
}

func objectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := objectID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
