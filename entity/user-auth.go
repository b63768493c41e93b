package entity

// UserAuth holds the identity claims carried by a verified bearer token.
type UserAuth struct {
	AccountId string `json:"accountId"`
	Role      string `json:"role"`
}

func (u *UserAuth) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
