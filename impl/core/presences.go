package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"SmartBus/internal/lib/validate"
	"context"
	"fmt"
	"log/slog"
)

// CreatePresence records a boarding or alighting event for an existing
// student and bus, then tells the parent when a chat is known.
func (c *Core) CreatePresence(ctx context.Context, in entity.PresenceInput) (*entity.Presence, error) {
	presence := entity.NewPresence(in)
	if err := validate.Struct(presence); err != nil {
		return nil, err
	}
	student, err := c.resolveStudent(ctx, presence.StudentId)
	if err != nil {
		return nil, err
	}
	bus, err := c.resolveBus(ctx, presence.BusId)
	if err != nil {
		return nil, err
	}
	if err = c.repo.CreatePresence(ctx, presence); err != nil {
		return nil, fmt.Errorf("create presence: %w", err)
	}

	c.notifyParent(ctx, student, bus, presence)
	return presence, nil
}

func (c *Core) ListPresences(ctx context.Context, filter entity.PresenceFilter) ([]entity.Presence, error) {
	presences, err := c.repo.ListPresences(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list presences: %w", err)
	}
	return presences, nil
}

func (c *Core) GetPresence(ctx context.Context, id string) (*entity.Presence, error) {
	presence, err := c.repo.GetPresence(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get presence: %w", err)
	}
	if presence == nil {
		return nil, errs.NotFoundf("presence %s not found", id)
	}
	return presence, nil
}

// UpdatePresence re-resolves the student and bus references that change.
func (c *Core) UpdatePresence(ctx context.Context, id string, in entity.PresenceInput) (*entity.Presence, error) {
	presence, err := c.GetPresence(ctx, id)
	if err != nil {
		return nil, err
	}
	old := *presence
	presence.Apply(in)

	if err = validate.Struct(presence); err != nil {
		return nil, err
	}
	if presence.StudentId != old.StudentId {
		if _, err = c.resolveStudent(ctx, presence.StudentId); err != nil {
			return nil, err
		}
	}
	if presence.BusId != old.BusId {
		if _, err = c.resolveBus(ctx, presence.BusId); err != nil {
			return nil, err
		}
	}
	if err = c.repo.UpdatePresence(ctx, presence); err != nil {
		return nil, fmt.Errorf("update presence: %w", err)
	}
	return presence, nil
}

func (c *Core) DeletePresence(ctx context.Context, id string) error {
	presence, err := c.GetPresence(ctx, id)
	if err != nil {
		return err
	}
	if err = c.repo.DeletePresence(ctx, presence.ID); err != nil {
		return fmt.Errorf("delete presence: %w", err)
	}
	return nil
}

// notifyParent never fails the request; delivery problems are logged.
func (c *Core) notifyParent(ctx context.Context, student *entity.Student, bus *entity.Bus, presence *entity.Presence) {
	if c.notifier == nil {
		return
	}
	logger := c.log.With(slog.String("student_id", student.StudentId))

	parent, err := c.repo.FindAccount(ctx, entity.AccountCin, student.ParentId)
	if err != nil {
		logger.Warn("find parent for notification", sl.Err(err))
		return
	}
	if parent == nil || parent.TelegramId == 0 {
		return
	}

	text := fmt.Sprintf("%s %s bus %s at %s",
		student.Name, presence.Verb(), bus.Name, presence.Timestamp.Format("15:04"))
	if err = c.notifier.Notify(parent.TelegramId, text); err != nil {
		logger.Warn("notify parent", sl.Err(err))
		return
	}
	logger.Debug("parent notified")
}
