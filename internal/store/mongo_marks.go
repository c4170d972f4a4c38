package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marksportal/internal/shared"
)

// MongoMarks implements Marks over the marks collection.
type MongoMarks struct {
	col *mongo.Collection
}

// NewMongoMarks creates a marks store backed by db's marks collection.
func NewMongoMarks(db *mongo.Database) *MongoMarks {
	return &MongoMarks{col: db.Collection(shared.MarksCollection)}
}

// Upsert writes the record through a single conditional update keyed on
// the unique (student_id, course) pair. Two concurrent calls for the
// same pair can both attempt an insert; the unique index rejects the
// loser with a duplicate-key error, and one retry turns that attempt
// into the in-place update it should have been.
func (s *MongoMarks) Upsert(ctx context.Context, rec shared.MarksRecord) (shared.MarksRecord, bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"student_id": rec.StudentID, "course": rec.Course}
	update := bson.M{
		"$set": bson.M{
			"score":      rec.Score,
			"grade":      rec.Grade,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	result, err := s.col.UpdateOne(queryCtx, filter, update, opts)
	if err != nil && shared.IsDuplicateKeyError(err) {
		// Lost an insert race; the document exists now, so retry once.
		result, err = s.col.UpdateOne(queryCtx, filter, update, opts)
	}
	if err != nil {
		return shared.MarksRecord{}, false, fmt.Errorf("failed to upsert marks record: %w", err)
	}

	wasUpdate := result.MatchedCount > 0

	var stored shared.MarksRecord
	if err := s.col.FindOne(queryCtx, filter).Decode(&stored); err != nil {
		return shared.MarksRecord{}, false, fmt.Errorf("failed to read back marks record: %w", err)
	}
	return stored, wasUpdate, nil
}

func (s *MongoMarks) ListByStudent(ctx context.Context, studentID string) ([]shared.MarksRecord, error) {
	return s.find(ctx, bson.M{"student_id": studentID})
}

func (s *MongoMarks) ListByCourse(ctx context.Context, course string) ([]shared.MarksRecord, error) {
	return s.find(ctx, bson.M{"course": course})
}

func (s *MongoMarks) ListByCourseAndStudents(ctx context.Context, course string, studentIDs []string) ([]shared.MarksRecord, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"course": course, "student_id": bson.M{"$in": studentIDs}})
}

func (s *MongoMarks) find(ctx context.Context, filter bson.M) ([]shared.MarksRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "course", Value: 1}, {Key: "student_id", Value: 1}})
	cursor, err := s.col.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks: %w", err)
	}
	defer cursor.Close(queryCtx)

	var records []shared.MarksRecord
	if err := cursor.All(queryCtx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode marks: %w", err)
	}
	return records, nil
}
