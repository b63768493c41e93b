package bus

import (
	"SmartBus/entity"
	"context"
)

type Core interface {
	CreateBus(ctx context.Context, in entity.BusInput) (*entity.Bus, error)
	ListBuses(ctx context.Context) ([]entity.Bus, error)
	GetBus(ctx context.Context, key string) (*entity.Bus, error)
	UpdateBus(ctx context.Context, key string, in entity.BusInput) (*entity.Bus, error)
	UpdateBusLocation(ctx context.Context, caller *entity.UserAuth, key string, at entity.Coordinates) (*entity.Bus, error)
	DeleteBus(ctx context.Context, key string) error
}
