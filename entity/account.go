package entity

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleParent = "parent"
	RoleDriver = "driver"
)

// Account fields used for lookups.
const (
	AccountUsername = "username"
	AccountEmail    = "email"
	AccountCin      = "cin"
	AccountRole     = "role"
)

type Account struct {
	ID          string    `json:"id" bson:"_id"`
	Username    string    `json:"username" bson:"username" validate:"required,max=64"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	Password    string    `json:"-" bson:"password"`
	Role        string    `json:"role" bson:"role" validate:"required,oneof=admin parent driver"`
	Cin         string    `json:"cin,omitempty" bson:"cin,omitempty" validate:"required_if=Role parent,omitempty,cin"`
	PhoneNumber string    `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty" validate:"required_if=Role parent,omitempty,phone"`
	TelegramId  int64     `json:"telegramId,omitempty" bson:"telegramId,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type AccountInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Cin         string `json:"cin"`
	PhoneNumber string `json:"phoneNumber"`
	TelegramId  int64  `json:"telegramId"`
}

// Normalize trims every text field and lowercases the email.
func (in *AccountInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Cin = strings.TrimSpace(in.Cin)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// NewAccount builds an account from in; the password is left for the
// caller to hash. Role defaults to parent.
func NewAccount(in AccountInput) *Account {
	in.Normalize()
	role := in.Role
	if role == "" {
		role = RoleParent
	}
	return &Account{
		ID:          NewId(),
		Username:    in.Username,
		Email:       in.Email,
		Role:        role,
		Cin:         in.Cin,
		PhoneNumber: in.PhoneNumber,
		TelegramId:  in.TelegramId,
		CreatedAt:   time.Now().UTC(),
	}
}

// Apply overwrites the fields set in in. Role and password are not touched.
func (a *Account) Apply(in AccountInput) {
	in.Normalize()
	if in.Username != "" {
		a.Username = in.Username
	}
	if in.Email != "" {
		a.Email = in.Email
	}
	if in.Cin != "" {
		a.Cin = in.Cin
	}
	if in.PhoneNumber != "" {
		a.PhoneNumber = in.PhoneNumber
	}
	if in.TelegramId != 0 {
		a.TelegramId = in.TelegramId
	}
}

func (a *Account) IsParent() bool {
	return a.Role == RoleParent
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
