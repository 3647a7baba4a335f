// Package storetest provides in-memory TaskStore/UserStore implementations
// so the services and handlers can be exercised without a running MongoDB.
// Listing supports equality filters, skip and limit; that is all the tests
// need.
package storetest

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"task-manager/microservices/api-service/db"
	"task-manager/microservices/api-service/models"
	"task-manager/microservices/api-service/query"
)

type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
	order []string
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: map[string]*models.Task{}}
}

func (s *TaskStore) Insert(_ context.Context, task *models.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	id := task.ID.Hex()
	clone := *task
	s.tasks[id] = &clone
	s.order = append(s.order, id)
	return id, nil
}

func (s *TaskStore) FindByID(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (s *TaskStore) Replace(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := task.ID.Hex()
	if _, ok := s.tasks[id]; !ok {
		return db.ErrNotFound
	}
	clone := *task
	s.tasks[id] = &clone
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStore) CountByIDs(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var count int64
	for _, id := range ids {
		if _, ok := s.tasks[id]; ok && !seen[id] {
			seen[id] = true
			count++
		}
	}
	return count, nil
}

func (s *TaskStore) SetAssignment(_ context.Context, ids []string, userID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			task.AssignedUser = userID
			task.AssignedUserName = userName
		}
	}
	return nil
}

func (s *TaskStore) ClearAssignment(ctx context.Context, ids []string) error {
	return s.SetAssignment(ctx, ids, "", models.UnassignedName)
}

func (s *TaskStore) List(_ context.Context, spec *query.Spec) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := []bson.M{}
	for _, id := range s.order {
		doc := taskDoc(s.tasks[id])
		if matches(doc, spec.Filter) {
			docs = append(docs, doc)
		}
	}
	return window(docs, spec.Skip, spec.Limit), nil
}

func (s *TaskStore) Count(_ context.Context, spec *query.Spec) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, task := range s.tasks {
		if matches(taskDoc(task), spec.Filter) {
			count++
		}
	}
	return count, nil
}

func (s *TaskStore) Get(_ context.Context, id string, projection bson.M) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return project(taskDoc(task), projection), nil
}

type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	order []string
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]*models.User{}}
}

func (s *UserStore) Insert(_ context.Context, user *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return "", db.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	id := user.ID.Hex()
	clone := cloneUser(user)
	s.users[id] = clone
	s.order = append(s.order, id)
	return id, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *UserStore) Replace(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := user.ID.Hex()
	if _, ok := s.users[id]; !ok {
		return db.ErrNotFound
	}
	for otherID, existing := range s.users {
		if otherID != id && existing.Email == user.Email {
			return db.ErrDuplicateEmail
		}
	}
	s.users[id] = cloneUser(user)
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.users, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *UserStore) AddPendingTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	for _, existing := range user.PendingTasks {
		if existing == taskID {
			return nil
		}
	}
	user.PendingTasks = append(user.PendingTasks, taskID)
	return nil
}

func (s *UserStore) RemovePendingTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	for i, existing := range user.PendingTasks {
		if existing == taskID {
			user.PendingTasks = append(user.PendingTasks[:i], user.PendingTasks[i+1:]...)
			break
		}
	}
	return nil
}

func (s *UserStore) List(_ context.Context, spec *query.Spec) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := []bson.M{}
	for _, id := range s.order {
		doc := userDoc(s.users[id])
		if matches(doc, spec.Filter) {
			docs = append(docs, doc)
		}
	}
	return window(docs, spec.Skip, spec.Limit), nil
}

func (s *UserStore) Count(_ context.Context, spec *query.Spec) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, user := range s.users {
		if matches(userDoc(user), spec.Filter) {
			count++
		}
	}
	return count, nil
}

func (s *UserStore) Get(_ context.Context, id string, projection bson.M) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return project(userDoc(user), projection), nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.PendingTasks = append([]string{}, user.PendingTasks...)
	return &clone
}

func taskDoc(task *models.Task) bson.M {
	return bson.M{
		"_id":              task.ID.Hex(),
		"name":             task.Name,
		"description":      task.Description,
		"deadline":         task.Deadline,
		"completed":        task.Completed,
		"assignedUser":     task.AssignedUser,
		"assignedUserName": task.AssignedUserName,
		"dateCreated":      task.DateCreated,
	}
}

func userDoc(user *models.User) bson.M {
	return bson.M{
		"_id":          user.ID.Hex(),
		"name":         user.Name,
		"email":        user.Email,
		"pendingTasks": append([]string{}, user.PendingTasks...),
	}
}

func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		if !reflect.DeepEqual(doc[key], normalize(want)) {
			return false
		}
	}
	return true
}

// normalize undoes the json decoding of numbers so equality filters written
// as JSON compare against the bson documents.
func normalize(value interface{}) interface{} {
	if f, ok := value.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return value
}

func window(docs []bson.M, skip, limit int64) []bson.M {
	if skip > 0 {
		if skip >= int64(len(docs)) {
			return []bson.M{}
		}
		docs = docs[skip:]
	}
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}

// project applies an inclusion or exclusion projection. Mixed projections are
// not supported, matching the store's behavior closely enough for tests.
func project(doc bson.M, projection bson.M) bson.M {
	if len(projection) == 0 {
		return doc
	}

	include := false
	for key, value := range projection {
		if key != "_id" && truthy(value) {
			include = true
		}
	}

	result := bson.M{}
	if include {
		for key, value := range projection {
			if truthy(value) {
				if v, ok := doc[key]; ok {
					result[key] = v
				}
			}
		}
		if _, excluded := projection["_id"]; !excluded {
			result["_id"] = doc["_id"]
		}
		return result
	}

	for key, value := range doc {
		if v, ok := projection[key]; ok && !truthy(v) {
			continue
		}
		result[key] = value
	}
	return result
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case float64:
		return v != 0
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case bool:
		return v
	}
	return false
}
