package repository

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log/slog"
)

// EnsureIndexes creates the unique indexes that back the natural keys, so
// a race between two writers still ends in a conflict.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{field, 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	// sparse unique indexes skip documents where the field is absent
	sparse := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{field, 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}
	}
	plain := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{field, 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection:     {unique("username"), unique("email"), sparse("cin")},
		driversCollection:   {unique("cin"), sparse("email")},
		busesCollection:     {unique("busId"), plain("driverId1"), plain("driverId2")},
		studentsCollection:  {unique("studentId"), plain("parentId"), plain("busId")},
		presencesCollection: {plain("studentId"), plain("busId")},
	}

	for name, models := range indexes {
		created, err := m.collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		m.log.Debug("indexes ensured",
			slog.String("collection", name),
			slog.Any("indexes", created),
		)
	}
	return nil
}
