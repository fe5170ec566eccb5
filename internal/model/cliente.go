package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional sale counterpart; walk-in sales carry no cliente.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;index"`
	Email     *string
	Celular   *string
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
