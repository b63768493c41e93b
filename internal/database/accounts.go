package repository

import (
	"SmartBus/entity"
	"context"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) CreateAccount(ctx context.Context, account *entity.Account) error {
	return insertOne(ctx, m.collection(usersCollection), account)
}

func (m *MongoDB) UpdateAccount(ctx context.Context, account *entity.Account) error {
	return replaceOne(ctx, m.collection(usersCollection), account.ID, account)
}

func (m *MongoDB) DeleteAccount(ctx context.Context, id string) error {
	return deleteOne(ctx, m.collection(usersCollection), id)
}

func (m *MongoDB) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	return findOne[entity.Account](ctx, m.collection(usersCollection), bson.D{{"_id", id}})
}

func (m *MongoDB) FindAccount(ctx context.Context, field, value string) (*entity.Account, error) {
	return findOne[entity.Account](ctx, m.collection(usersCollection), bson.D{{field, value}})
}

// ListAccounts returns every account when role is empty.
func (m *MongoDB) ListAccounts(ctx context.Context, role string) ([]entity.Account, error) {
	filter := bson.D{}
	if role != "" {
		filter = bson.D{{"role", role}}
	}
	return findAll[entity.Account](ctx, m.collection(usersCollection), filter, byCreation())
}
