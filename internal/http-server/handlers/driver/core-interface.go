package driver

import (
	"SmartBus/entity"
	"context"
)

type Core interface {
	CreateDriver(ctx context.Context, in entity.DriverInput) (*entity.Driver, error)
	ListDrivers(ctx context.Context) ([]entity.Driver, error)
	GetDriver(ctx context.Context, key string) (*entity.Driver, error)
	UpdateDriver(ctx context.Context, key string, in entity.DriverInput) (*entity.Driver, error)
	DeleteDriver(ctx context.Context, key string) error
}
