package repository

import (
	"SmartBus/entity"
	"context"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) CreateBus(ctx context.Context, bus *entity.Bus) error {
	return insertOne(ctx, m.collection(busesCollection), bus)
}

func (m *MongoDB) UpdateBus(ctx context.Context, bus *entity.Bus) error {
	return replaceOne(ctx, m.collection(busesCollection), bus.ID, bus)
}

func (m *MongoDB) DeleteBus(ctx context.Context, id string) error {
	return deleteOne(ctx, m.collection(busesCollection), id)
}

func (m *MongoDB) GetBus(ctx context.Context, id string) (*entity.Bus, error) {
	return findOne[entity.Bus](ctx, m.collection(busesCollection), bson.D{{"_id", id}})
}

func (m *MongoDB) FindBus(ctx context.Context, field, value string) (*entity.Bus, error) {
	return findOne[entity.Bus](ctx, m.collection(busesCollection), bson.D{{field, value}})
}

func (m *MongoDB) ListBuses(ctx context.Context) ([]entity.Bus, error) {
	return findAll[entity.Bus](ctx, m.collection(busesCollection), bson.D{}, byCreation())
}

// CountBusesByDriver counts buses that reference cin in either driver slot.
func (m *MongoDB) CountBusesByDriver(ctx context.Context, cin string) (int64, error) {
	filter := bson.D{{"$or", []bson.D{
		{{"driverId1", cin}},
		{{"driverId2", cin}},
	}}}
	return countDocuments(ctx, m.collection(busesCollection), filter)
}
