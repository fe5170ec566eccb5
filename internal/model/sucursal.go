package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal is a physical store branch. Every caja, almacen and producto
// belongs to exactly one.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Almacenes []Almacen `gorm:"foreignKey:SucursalID"`
}

func (Sucursal) TableName() string { return "sucursales" }

// Almacen is a storage location inside a branch (sala de ventas, depósito).
type Almacen struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"not null"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	Ubicacion  *string
	Activo     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (Almacen) TableName() string { return "almacenes" }
