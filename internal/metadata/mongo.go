package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tempdrop/tempdrop/internal/models"
)

const collectionName = "files"

// MongoStore keeps file records in a MongoDB collection with the file id
// as the document key, so the unique `_id` index doubles as the
// collision detector for generated ids.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps the files collection of the given database.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{collection: client.Database(database).Collection(collectionName)}
}

func (s *MongoStore) Create(ctx context.Context, record *models.FileRecord) error {
	record.UploadedAt = time.Now().UTC()
	_, err := s.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert file record: %w", err)
	}
	return nil
}

// Get returns the record only while its expiry is still in the future.
// An expired row that the sweep has not caught yet behaves as absent.
func (s *MongoStore) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	filter := bson.M{"_id": id, "expires_at": bson.M{"$gt": time.Now().UTC()}}

	var record models.FileRecord
	err := s.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch file record: %w", err)
	}
	return &record, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete file record: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// SweepExpired collects the ids of expired rows, then deletes each row
// with the same expiry predicate. The per-row predicate keeps concurrent
// sweeps safe, a record created after the sweep began with a future
// expiry can never match, and per-row accounting keeps the returned set
// exact: a row a concurrent explicit delete already removed (or another
// sweep already swept) is not reported again.
func (s *MongoStore) SweepExpired(ctx context.Context) ([]string, error) {
	cutoff := time.Now().UTC()
	filter := bson.M{"expires_at": bson.M{"$lte": cutoff}}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired records: %w", err)
	}

	var expired []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &expired); err != nil {
		return nil, fmt.Errorf("failed to decode expired records: %w", err)
	}

	var swept []string
	for _, e := range expired {
		res, err := s.collection.DeleteOne(ctx, bson.M{
			"_id":        e.ID,
			"expires_at": bson.M{"$lte": cutoff},
		})
		if err != nil {
			return swept, fmt.Errorf("failed to delete expired record %s: %w", e.ID, err)
		}
		if res.DeletedCount > 0 {
			swept = append(swept, e.ID)
		}
	}
	return swept, nil
}
