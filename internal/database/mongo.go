package repository

import (
	"SmartBus/internal/config"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log/slog"
	"time"
)

const (
	usersCollection     = "users"
	driversCollection   = "drivers"
	busesCollection     = "buses"
	studentsCollection  = "students"
	presencesCollection = "presences"
)

const connectTimeout = 10 * time.Second

type MongoDB struct {
	client   *mongo.Client
	database string
	log      *slog.Logger
}

// NewMongoClient connects to the configured server and verifies the
// connection with a ping. The client is shared by every call.
func NewMongoClient(ctx context.Context, conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	clientOptions := options.Client().ApplyURI(conf.MongoURI())
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}

	return &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
		log:      logger.With(sl.Module("mongodb")),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

func findOne[T any](ctx context.Context, collection *mongo.Collection, filter bson.D) (*T, error) {
	var doc T
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, findError(err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, collection *mongo.Collection, filter bson.D, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return docs, nil
}

func insertOne(ctx context.Context, collection *mongo.Collection, doc any) error {
	_, err := collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Wrap(errs.Conflict, "record already exists", err)
		}
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

func replaceOne(ctx context.Context, collection *mongo.Collection, id string, doc any) error {
	result, err := collection.ReplaceOne(ctx, bson.D{{"_id", id}}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Wrap(errs.Conflict, "record already exists", err)
		}
		return fmt.Errorf("mongodb update error: %w", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFoundf("record %s not found", id)
	}
	return nil
}

func deleteOne(ctx context.Context, collection *mongo.Collection, id string) error {
	result, err := collection.DeleteOne(ctx, bson.D{{"_id", id}})
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	if result.DeletedCount == 0 {
		return errs.NotFoundf("record %s not found", id)
	}
	return nil
}

func countDocuments(ctx context.Context, collection *mongo.Collection, filter bson.D) (int64, error) {
	n, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongodb count error: %w", err)
	}
	return n, nil
}

// byCreation orders listings oldest first.
func byCreation() *options.FindOptions {
	return options.Find().SetSort(bson.D{{"createdAt", 1}})
}
