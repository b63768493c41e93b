package presence

import (
	"SmartBus/entity"
	"context"
)

type Core interface {
	CreatePresence(ctx context.Context, in entity.PresenceInput) (*entity.Presence, error)
	ListPresences(ctx context.Context, filter entity.PresenceFilter) ([]entity.Presence, error)
	GetPresence(ctx context.Context, id string) (*entity.Presence, error)
	UpdatePresence(ctx context.Context, id string, in entity.PresenceInput) (*entity.Presence, error)
	DeletePresence(ctx context.Context, id string) error
}
