package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marksportal/internal/shared"
)

const queryTimeout = 10 * time.Second

// MongoUsers implements Users over the users collection.
type MongoUsers struct {
	col *mongo.Collection
}

// NewMongoUsers creates a user store backed by db's users collection.
func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(shared.UsersCollection)}
}

func (s *MongoUsers) Create(ctx context.Context, user shared.User) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.col.InsertOne(queryCtx, user)
	if err != nil {
		if shared.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoUsers) GetByID(ctx context.Context, id string) (shared.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUsers) GetByEmail(ctx context.Context, email string) (shared.User, error) {
	return s.findOne(ctx, bson.M{"email": shared.NormalizeEmail(email)})
}

func (s *MongoUsers) ListStudentsByFaculty(ctx context.Context, facultyID string) ([]shared.User, error) {
	return s.find(ctx, bson.M{"role": shared.RoleStudent, "faculty_id": facultyID})
}

func (s *MongoUsers) ListStudents(ctx context.Context) ([]shared.User, error) {
	return s.find(ctx, bson.M{"role": shared.RoleStudent})
}

func (s *MongoUsers) ListAll(ctx context.Context) ([]shared.User, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user shared.User
	err := s.col.FindOne(queryCtx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return shared.User{}, ErrNotFound
		}
		return shared.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *MongoUsers) find(ctx context.Context, filter bson.M) ([]shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.col.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(queryCtx)

	var users []shared.User
	if err := cursor.All(queryCtx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
