package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/validate"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

func busId(b *entity.Bus) string { return b.ID }

func (c *Core) CreateBus(ctx context.Context, in entity.BusInput) (*entity.Bus, error) {
	bus := entity.NewBus(in)
	if err := c.checkBus(ctx, bus); err != nil {
		return nil, err
	}
	if err := c.repo.CreateBus(ctx, bus); err != nil {
		return nil, fmt.Errorf("create bus: %w", err)
	}
	c.log.With(slog.String("bus_id", bus.BusId)).Info("bus created")
	return bus, nil
}

// checkBus runs shape validation, uniqueness and driver resolution in
// that order.
func (c *Core) checkBus(ctx context.Context, bus *entity.Bus) error {
	if err := validate.Struct(bus); err != nil {
		return err
	}
	if bus.DriverId2 != "" && bus.DriverId2 == bus.DriverId1 {
		return errs.Invalid("driverId1 and driverId2 must be different drivers")
	}
	if err := checkUnique(ctx, c.repo.FindBus, busId, bus.ID,
		uniqueField{entity.BusBusId, bus.BusId},
	); err != nil {
		return err
	}
	return c.checkBusDrivers(ctx, bus)
}

func (c *Core) ListBuses(ctx context.Context) ([]entity.Bus, error) {
	buses, err := c.repo.ListBuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	return buses, nil
}

// GetBus resolves key as an internal id or a bus identifier.
func (c *Core) GetBus(ctx context.Context, key string) (*entity.Bus, error) {
	bus, err := lookup(ctx, key, c.repo.GetBus, c.repo.FindBus, entity.BusBusId)
	if err != nil {
		return nil, fmt.Errorf("get bus: %w", err)
	}
	if bus == nil {
		return nil, errs.NotFoundf("bus %s not found", key)
	}
	return bus, nil
}

func (c *Core) UpdateBus(ctx context.Context, key string, in entity.BusInput) (*entity.Bus, error) {
	bus, err := c.GetBus(ctx, key)
	if err != nil {
		return nil, err
	}
	oldBusId := bus.BusId
	bus.Apply(in)

	if err = c.checkBus(ctx, bus); err != nil {
		return nil, err
	}
	if oldBusId != bus.BusId {
		if err = c.checkBusRename(ctx, oldBusId); err != nil {
			return nil, err
		}
	}
	if err = c.repo.UpdateBus(ctx, bus); err != nil {
		return nil, fmt.Errorf("update bus: %w", err)
	}
	return bus, nil
}

func (c *Core) checkBusRename(ctx context.Context, oldBusId string) error {
	n, err := c.repo.CountStudents(ctx, entity.StudentBusId, oldBusId)
	if err = noDependents(n, err, "bus "+oldBusId, "student(s)"); err != nil {
		return err
	}
	n, err = c.repo.CountPresences(ctx, entity.PresenceBusId, oldBusId)
	return noDependents(n, err, "bus "+oldBusId, "presence record(s)")
}

// UpdateBusLocation records the live position of a bus. Admins may move any
// bus; a driver account only a bus whose driverId1 or driverId2 is its cin.
func (c *Core) UpdateBusLocation(ctx context.Context, caller *entity.UserAuth, key string, at entity.Coordinates) (*entity.Bus, error) {
	bus, err := c.GetBus(ctx, key)
	if err != nil {
		return nil, err
	}
	if err = c.checkBusDriver(ctx, caller, bus); err != nil {
		return nil, err
	}
	bus.MoveTo(at)
	if err = validate.Struct(bus.Location); err != nil {
		return nil, err
	}
	if err = c.repo.UpdateBus(ctx, bus); err != nil {
		return nil, fmt.Errorf("update bus location: %w", err)
	}
	return bus, nil
}

func (c *Core) checkBusDriver(ctx context.Context, caller *entity.UserAuth, bus *entity.Bus) error {
	if caller == nil {
		return errs.Forbiddenf("unauthenticated caller")
	}
	if caller.IsAdmin() {
		return nil
	}
	account, err := c.repo.GetAccount(ctx, caller.AccountId)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if account == nil || account.Role != entity.RoleDriver || account.Cin == "" ||
		!slices.Contains(bus.DriverIds(), account.Cin) {
		return errs.Forbiddenf("only a driver assigned to bus %s may update its location", bus.BusId)
	}
	return nil
}

// DeleteBus refuses while any student is assigned to the bus.
func (c *Core) DeleteBus(ctx context.Context, key string) error {
	bus, err := c.GetBus(ctx, key)
	if err != nil {
		return err
	}
	n, err := c.repo.CountStudents(ctx, entity.StudentBusId, bus.BusId)
	if err = noDependents(n, err, "bus "+bus.BusId, "student(s)"); err != nil {
		return err
	}
	if err = c.repo.DeleteBus(ctx, bus.ID); err != nil {
		return fmt.Errorf("delete bus: %w", err)
	}
	return nil
}
