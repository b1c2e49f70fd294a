package internal

import (
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/utils"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:        domain.ID(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Role:      domain.Role(u.Role),
		CreatedAt: utils.Time{Time: u.CreatedAt},
	}
}

func FromUser(value domain.User) User {
	return User{
		ID:        value.ID.String(),
		Name:      value.Name,
		Email:     value.Email,
		Role:      string(value.Role),
		CreatedAt: value.CreatedAt.Time,
	}
}
