package user

import (
	"SmartBus/entity"
	"context"
)

type Core interface {
	Register(ctx context.Context, in entity.AccountInput) (*entity.Account, string, error)
	AddParent(ctx context.Context, in entity.AccountInput) (*entity.Account, string, error)
	Login(ctx context.Context, login, password string) (*entity.Account, string, error)
	GetAccount(ctx context.Context, id string) (*entity.Account, error)
	UpdateAccount(ctx context.Context, id string, in entity.AccountInput) (*entity.Account, error)
	ListParents(ctx context.Context) ([]entity.Account, error)
	GetParent(ctx context.Context, key string) (*entity.Account, error)
	UpdateParent(ctx context.Context, key string, in entity.AccountInput) (*entity.Account, error)
	DeleteParent(ctx context.Context, key string) error
	ParentStudents(ctx context.Context, id string) ([]entity.Student, error)
	ParentPresences(ctx context.Context, id string) ([]entity.Presence, error)
}
