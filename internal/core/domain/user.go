package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	FullName          string `validate:"required,min=2,max=100"`
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) Profile() Profile {
	return Profile{
		ID:       u.UUID.String(),
		FullName: u.FullName,
		Email:    u.Email,
	}
}
