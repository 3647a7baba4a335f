package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

// UserStore performs single-document operations on the users collection.
type UserStore struct {
	store *Store
	coll  *mongo.Collection
}

func NewUserStore(store *Store) *UserStore {
	return &UserStore{
		store: store,
		coll:  store.database.Collection(usersCollection),
	}
}

func (u *UserStore) Insert(ctx context.Context, user *models.User) (string, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := u.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return u.coll.InsertOne(ctx, user)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return user.ID.Hex(), nil
}

func (u *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result, err := u.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		var user models.User
		if err := u.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return result.(*models.User), nil
}

func (u *UserStore) Replace(ctx context.Context, user *models.User) error {
	result, err := u.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return u.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (u *UserStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := u.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return u.coll.DeleteOne(ctx, bson.M{"_id": oid})
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPendingTask adds a task id to the user's pending set. $addToSet keeps the
// write idempotent so duplicates never accumulate.
func (u *UserStore) AddPendingTask(ctx context.Context, userID, taskID string) error {
	return u.updatePending(ctx, userID, bson.M{"$addToSet": bson.M{"pendingTasks": taskID}})
}

// RemovePendingTask pulls a task id from the user's pending set; removing an
// id that is already absent is a no-op.
func (u *UserStore) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	return u.updatePending(ctx, userID, bson.M{"$pull": bson.M{"pendingTasks": taskID}})
}

func (u *UserStore) updatePending(ctx context.Context, userID string, update bson.M) error {
	oid, err := objectID(userID)
	if err != nil {
		return ErrNotFound
	}

	_, err = u.store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return u.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	})
	if err != nil {
		return fmt.Errorf("failed to update pending tasks: %w", err)
	}
	return nil
}

func (u *UserStore) List(ctx context.Context, spec *query.Spec) ([]bson.M, error) {
	return runFind(ctx, u.store, u.coll, spec)
}

func (u *UserStore) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	return runCount(ctx, u.store, u.coll, spec)
}

func (u *UserStore) Get(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	return findByIDProjected(ctx, u.store, u.coll, id, projection)
}
