package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/validate"
	"context"
	"fmt"
	"log/slog"
)

func driverId(d *entity.Driver) string { return d.ID }

func (c *Core) CreateDriver(ctx context.Context, in entity.DriverInput) (*entity.Driver, error) {
	driver := entity.NewDriver(in)
	if err := validate.Struct(driver); err != nil {
		return nil, err
	}
	if err := c.checkDriverUnique(ctx, driver); err != nil {
		return nil, err
	}
	if err := c.repo.CreateDriver(ctx, driver); err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	c.log.With(slog.String("cin", driver.Cin)).Info("driver created")
	return driver, nil
}

func (c *Core) checkDriverUnique(ctx context.Context, driver *entity.Driver) error {
	return checkUnique(ctx, c.repo.FindDriver, driverId, driver.ID,
		uniqueField{entity.DriverCin, driver.Cin},
		uniqueField{entity.DriverEmail, driver.Email},
	)
}

func (c *Core) ListDrivers(ctx context.Context) ([]entity.Driver, error) {
	drivers, err := c.repo.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, nil
}

// GetDriver resolves key as an internal id or a cin.
func (c *Core) GetDriver(ctx context.Context, key string) (*entity.Driver, error) {
	driver, err := lookup(ctx, key, c.repo.GetDriver, c.repo.FindDriver, entity.DriverCin)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	if driver == nil {
		return nil, errs.NotFoundf("driver %s not found", key)
	}
	return driver, nil
}

func (c *Core) UpdateDriver(ctx context.Context, key string, in entity.DriverInput) (*entity.Driver, error) {
	driver, err := c.GetDriver(ctx, key)
	if err != nil {
		return nil, err
	}
	oldCin := driver.Cin
	driver.Apply(in)

	if err = validate.Struct(driver); err != nil {
		return nil, err
	}
	if err = c.checkDriverUnique(ctx, driver); err != nil {
		return nil, err
	}
	if oldCin != driver.Cin {
		n, err := c.repo.CountBusesByDriver(ctx, oldCin)
		if err = noDependents(n, err, "driver "+oldCin, "bus(es)"); err != nil {
			return nil, err
		}
	}
	if err = c.repo.UpdateDriver(ctx, driver); err != nil {
		return nil, fmt.Errorf("update driver: %w", err)
	}
	return driver, nil
}

// DeleteDriver refuses while any bus is assigned to the driver.
func (c *Core) DeleteDriver(ctx context.Context, key string) error {
	driver, err := c.GetDriver(ctx, key)
	if err != nil {
		return err
	}
	n, err := c.repo.CountBusesByDriver(ctx, driver.Cin)
	if err = noDependents(n, err, "driver "+driver.Cin, "bus(es)"); err != nil {
		return err
	}
	if err = c.repo.DeleteDriver(ctx, driver.ID); err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	return nil
}
