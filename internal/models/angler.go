package models

import (
	"time"

	"github.com/google/uuid"
)

// Angler is a member of the public angler directory
type Angler struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,max=255"`
	Club      string    `db:"club" json:"club"`
	Town      string    `db:"town" json:"town"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
