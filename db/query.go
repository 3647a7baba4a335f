package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"task-manager/microservices/api-service/query"
)

// runFind executes a parsed list spec against a collection and returns the
// raw matching documents.
func runFind(ctx context.Context, store *Store, coll *mongo.Collection, spec *query.Spec) ([]bson.M, error) {
	result, err := store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		opts := options.Find()
		if spec.Sort != nil {
			opts.SetSort(spec.Sort)
		}
		if spec.Projection != nil {
			opts.SetProjection(spec.Projection)
		}
		if spec.Skip > 0 {
			opts.SetSkip(spec.Skip)
		}
		if spec.Limit > 0 {
			opts.SetLimit(spec.Limit)
		}

		filter := spec.Filter
		if filter == nil {
			filter = bson.M{}
		}

		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		documents := []bson.M{}
		for cursor.Next(ctx) {
			var doc bson.M
			if err := cursor.Decode(&doc); err != nil {
				return nil, err
			}
			documents = append(documents, doc)
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}

		return documents, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}
	return result.([]bson.M), nil
}

// runCount counts the documents matching the spec's filter alone; skip and
// limit deliberately do not apply in count mode.
func runCount(ctx context.Context, store *Store, coll *mongo.Collection, spec *query.Spec) (int64, error) {
	result, err := store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		filter := spec.Filter
		if filter == nil {
			filter = bson.M{}
		}
		return coll.CountDocuments(ctx, filter)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return result.(int64), nil
}

// findByIDProjected reads a single document by id, applying an optional
// projection from the select parameter.
func findByIDProjected(ctx context.Context, store *Store, coll *mongo.Collection, id string, projection bson.M) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result, err := store.execute(ctx, func(ctx context.Context) (interface{}, error) {
		opts := options.FindOne()
		if projection != nil {
			opts.SetProjection(projection)
		}
		var doc bson.M
		if err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document: %w", err)
	}
	return result.(bson.M), nil
}
