package entity

import (
	"strings"
	"time"
)

// Driver fields used for lookups.
const (
	DriverCin   = "cin"
	DriverEmail = "email"
)

type Driver struct {
	ID          string    `json:"id" bson:"_id"`
	FirstName   string    `json:"firstName" bson:"firstName" validate:"required"`
	LastName    string    `json:"lastName" bson:"lastName" validate:"required"`
	Cin         string    `json:"cin" bson:"cin" validate:"required,cin"`
	PhoneNumber string    `json:"phoneNumber" bson:"phoneNumber" validate:"required,phone"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type DriverInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Cin         string `json:"cin"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

func (in *DriverInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Cin = strings.TrimSpace(in.Cin)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func NewDriver(in DriverInput) *Driver {
	in.Normalize()
	return &Driver{
		ID:          NewId(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Cin:         in.Cin,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		CreatedAt:   time.Now().UTC(),
	}
}

func (d *Driver) Apply(in DriverInput) {
	in.Normalize()
	if in.FirstName != "" {
		d.FirstName = in.FirstName
	}
	if in.LastName != "" {
		d.LastName = in.LastName
	}
	if in.Cin != "" {
		d.Cin = in.Cin
	}
	if in.PhoneNumber != "" {
		d.PhoneNumber = in.PhoneNumber
	}
	if in.Email != "" {
		d.Email = in.Email
	}
}

func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
