package domain

import (
	"errors"
	"time"

	"asset-server/internal/infra/utils"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// User is the minimal identity referenced by assignments and audit entries.
// Authentication and session mechanics live outside this service.
type User struct {
	ID        ID
	Name      string
	Email     string
	Role      Role
	CreatedAt utils.Time
}

var ErrEmptyUserName = errors.New("user name must not be empty")

func NewUserBuilder() *userBuilder {
	return &userBuilder{}
}

type userBuilder struct {
	actions []userHandler
}

type userHandler func(u *User) error

func (b *userBuilder) WithName(value string) *userBuilder {
	b.actions = append(b.actions, func(u *User) error {
		u.Name = value
		return nil
	})
	return b
}

func (b *userBuilder) WithEmail(value string) *userBuilder {
	b.actions = append(b.actions, func(u *User) error {
		u.Email = value
		return nil
	})
	return b
}

func (b *userBuilder) WithRole(value Role) *userBuilder {
	b.actions = append(b.actions, func(u *User) error {
		u.Role = value
		return nil
	})
	return b
}

func (b *userBuilder) Build() (User, error) {
	result := User{
		ID:        ID(utils.GenerateUUID()),
		Role:      RoleStaff,
		CreatedAt: utils.Time{Time: time.Now()},
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return User{}, err
		}
	}

	if result.Name == "" {
		return User{}, ErrEmptyUserName
	}

	return result, nil
}
