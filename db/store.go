// Package db implements the MongoDB-backed storage layer. Every call runs
// through one shared circuit breaker and a bounded per-call timeout; a tripped
// breaker or an expired deadline surfaces as a plain store error.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound signals that no document matched the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail signals the unique index on users.email rejected a write.
	ErrDuplicateEmail = errors.New("email already in use")
)

const (
	tasksCollection = "tasks"
	usersCollection = "users"
)

// Store wraps a Mongo database handle with the circuit breaker and timeout
// every collection access goes through.
type Store struct {
	database *mongo.Database
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
}

func NewStore(database *mongo.Database, breaker *gobreaker.CircuitBreaker, timeout time.Duration) *Store {
	return &Store{
		database: database,
		breaker:  breaker,
		timeout:  timeout,
	}
}

// BreakerSettings returns the circuit breaker configuration used for MongoDB.
// Not-found lookups and duplicate-key rejections are expected outcomes and
// must not trip the breaker.
func BreakerSettings(onStateChange func(name string, from, to gobreaker.State)) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "mongo-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err)
		},
		OnStateChange: onStateChange,
	}
}

// execute runs one store operation through the breaker under the configured
// timeout.
func (s *Store) execute(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	return s.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return op(opCtx)
	})
}

// EnsureIndexes creates the unique index backing the duplicate-email check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.database.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	})
	return err
}
