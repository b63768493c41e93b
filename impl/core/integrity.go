package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"context"
	"fmt"
)

type uniqueField struct {
	name  string
	value string
}

// checkUnique fails with Conflict when a record other than selfId already
// holds one of the candidate values. Empty values are skipped.
func checkUnique[T any](
	ctx context.Context,
	find func(context.Context, string, string) (*T, error),
	idOf func(*T) string,
	selfId string,
	fields ...uniqueField,
) error {
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		other, err := find(ctx, f.name, f.value)
		if err != nil {
			return fmt.Errorf("find by %s: %w", f.name, err)
		}
		if other != nil && idOf(other) != selfId {
			return errs.Conflictf("%s %q is already taken", f.name, f.value)
		}
	}
	return nil
}

// noDependents turns a dependent-record count into a Conflict.
func noDependents(count int64, err error, what, dependents string) error {
	if err != nil {
		return fmt.Errorf("count %s: %w", dependents, err)
	}
	if count > 0 {
		return errs.Conflictf("%s has dependents: %d %s", what, count, dependents)
	}
	return nil
}

func (c *Core) resolveParent(ctx context.Context, cin string) (*entity.Account, error) {
	parent, err := c.repo.FindAccount(ctx, entity.AccountCin, cin)
	if err != nil {
		return nil, fmt.Errorf("find parent: %w", err)
	}
	if parent == nil || !parent.IsParent() {
		return nil, errs.NotFoundf("parent with cin %s not found", cin)
	}
	return parent, nil
}

func (c *Core) resolveDriver(ctx context.Context, cin string) (*entity.Driver, error) {
	driver, err := c.repo.FindDriver(ctx, entity.DriverCin, cin)
	if err != nil {
		return nil, fmt.Errorf("find driver: %w", err)
	}
	if driver == nil {
		return nil, errs.NotFoundf("driver with cin %s not found", cin)
	}
	return driver, nil
}

func (c *Core) resolveBus(ctx context.Context, busId string) (*entity.Bus, error) {
	bus, err := c.repo.FindBus(ctx, entity.BusBusId, busId)
	if err != nil {
		return nil, fmt.Errorf("find bus: %w", err)
	}
	if bus == nil {
		return nil, errs.NotFoundf("bus %s not found", busId)
	}
	return bus, nil
}

func (c *Core) resolveStudent(ctx context.Context, studentId string) (*entity.Student, error) {
	student, err := c.repo.FindStudent(ctx, entity.StudentStudentId, studentId)
	if err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	if student == nil {
		return nil, errs.NotFoundf("student %s not found", studentId)
	}
	return student, nil
}

// checkBusDrivers requires every driver reference of bus to resolve.
func (c *Core) checkBusDrivers(ctx context.Context, bus *entity.Bus) error {
	for _, cin := range bus.DriverIds() {
		if _, err := c.resolveDriver(ctx, cin); err != nil {
			return err
		}
	}
	return nil
}

// lookup resolves key as an internal id first, then as a natural key.
func lookup[T any](
	ctx context.Context,
	key string,
	get func(context.Context, string) (*T, error),
	find func(context.Context, string, string) (*T, error),
	naturalKey string,
) (*T, error) {
	if entity.IsId(key) {
		found, err := get(ctx, key)
		if err != nil || found != nil {
			return found, err
		}
	}
	return find(ctx, naturalKey, key)
}
