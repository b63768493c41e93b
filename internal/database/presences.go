package repository

import (
	"SmartBus/entity"
	"context"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreatePresence(ctx context.Context, presence *entity.Presence) error {
	return insertOne(ctx, m.collection(presencesCollection), presence)
}

func (m *MongoDB) UpdatePresence(ctx context.Context, presence *entity.Presence) error {
	return replaceOne(ctx, m.collection(presencesCollection), presence.ID, presence)
}

func (m *MongoDB) DeletePresence(ctx context.Context, id string) error {
	return deleteOne(ctx, m.collection(presencesCollection), id)
}

func (m *MongoDB) GetPresence(ctx context.Context, id string) (*entity.Presence, error) {
	return findOne[entity.Presence](ctx, m.collection(presencesCollection), bson.D{{"_id", id}})
}

// ListPresences returns the newest events first.
func (m *MongoDB) ListPresences(ctx context.Context, filter entity.PresenceFilter) ([]entity.Presence, error) {
	query := bson.D{}
	if len(filter.StudentIds) > 0 {
		query = append(query, bson.E{Key: entity.PresenceStudentId, Value: bson.D{{"$in", filter.StudentIds}}})
	}
	if filter.BusId != "" {
		query = append(query, bson.E{Key: entity.PresenceBusId, Value: filter.BusId})
	}
	opts := options.Find().SetSort(bson.D{{"timestamp", -1}})
	return findAll[entity.Presence](ctx, m.collection(presencesCollection), query, opts)
}

func (m *MongoDB) CountPresences(ctx context.Context, field, value string) (int64, error) {
	return countDocuments(ctx, m.collection(presencesCollection), bson.D{{field, value}})
}
