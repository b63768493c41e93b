package repository

import (
	"SmartBus/entity"
	"context"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) CreateDriver(ctx context.Context, driver *entity.Driver) error {
	return insertOne(ctx, m.collection(driversCollection), driver)
}

func (m *MongoDB) UpdateDriver(ctx context.Context, driver *entity.Driver) error {
	return replaceOne(ctx, m.collection(driversCollection), driver.ID, driver)
}

func (m *MongoDB) DeleteDriver(ctx context.Context, id string) error {
	return deleteOne(ctx, m.collection(driversCollection), id)
}

func (m *MongoDB) GetDriver(ctx context.Context, id string) (*entity.Driver, error) {
	return findOne[entity.Driver](ctx, m.collection(driversCollection), bson.D{{"_id", id}})
}

func (m *MongoDB) FindDriver(ctx context.Context, field, value string) (*entity.Driver, error) {
	return findOne[entity.Driver](ctx, m.collection(driversCollection), bson.D{{field, value}})
}

func (m *MongoDB) ListDrivers(ctx context.Context) ([]entity.Driver, error) {
	return findAll[entity.Driver](ctx, m.collection(driversCollection), bson.D{}, byCreation())
}
