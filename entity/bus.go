package entity

import (
	"strings"
	"time"
)

// Bus fields used for lookups.
const (
	BusBusId = "busId"
)

type Location struct {
	Latitude  float64   `json:"latitude" bson:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" bson:"longitude" validate:"gte=-180,lte=180"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Bus struct {
	ID        string    `json:"id" bson:"_id"`
	BusId     string    `json:"busId" bson:"busId" validate:"required,max=32"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"gt=0"`
	Location  *Location `json:"location,omitempty" bson:"location,omitempty"`
	DriverId1 string    `json:"driverId1" bson:"driverId1" validate:"required,cin"`
	DriverId2 string    `json:"driverId2,omitempty" bson:"driverId2,omitempty" validate:"omitempty,cin"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type BusInput struct {
	BusId     string       `json:"busId"`
	Name      string       `json:"name"`
	Capacity  int          `json:"capacity"`
	Location  *Coordinates `json:"location"`
	DriverId1 string       `json:"driverId1"`
	// DriverId2 is a pointer so an update can clear the second driver with "".
	DriverId2 *string `json:"driverId2"`
}

func (in *BusInput) Normalize() {
	in.BusId = strings.TrimSpace(in.BusId)
	in.Name = strings.TrimSpace(in.Name)
	in.DriverId1 = strings.TrimSpace(in.DriverId1)
	if in.DriverId2 != nil {
		d := strings.TrimSpace(*in.DriverId2)
		in.DriverId2 = &d
	}
}

func NewBus(in BusInput) *Bus {
	in.Normalize()
	bus := &Bus{
		ID:        NewId(),
		BusId:     in.BusId,
		Name:      in.Name,
		Capacity:  in.Capacity,
		DriverId1: in.DriverId1,
		CreatedAt: time.Now().UTC(),
	}
	if in.DriverId2 != nil {
		bus.DriverId2 = *in.DriverId2
	}
	if in.Location != nil {
		bus.MoveTo(*in.Location)
	}
	return bus
}

func (b *Bus) Apply(in BusInput) {
	in.Normalize()
	if in.BusId != "" {
		b.BusId = in.BusId
	}
	if in.Name != "" {
		b.Name = in.Name
	}
	if in.Capacity != 0 {
		b.Capacity = in.Capacity
	}
	if in.DriverId1 != "" {
		b.DriverId1 = in.DriverId1
	}
	if in.DriverId2 != nil {
		b.DriverId2 = *in.DriverId2
	}
	if in.Location != nil {
		b.MoveTo(*in.Location)
	}
}

func (b *Bus) MoveTo(c Coordinates) {
	b.Location = &Location{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		UpdatedAt: time.Now().UTC(),
	}
}

// DriverIds returns the non-empty driver references of the bus.
func (b *Bus) DriverIds() []string {
	ids := []string{b.DriverId1}
	if b.DriverId2 != "" {
		ids = append(ids, b.DriverId2)
	}
	return ids
}
