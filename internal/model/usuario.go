package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access.
// SucursalID scopes vendedores/cajeros to one branch; nil = all branches.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombres      string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          Rol       `gorm:"type:varchar(20);not null"`
	SucursalID   *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}
