package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventario is the ledger line: one row per (producto, almacén) pair.
// Cantidad never goes below zero — decrements are conditional updates that
// fail instead of underflowing.
type Inventario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_inventario_prod_alm"`
	AlmacenID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_inventario_prod_alm"`
	Cantidad       int       `gorm:"not null;default:0"`
	UbicacionFisica string   `gorm:"not null;default:'N/A'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Almacen  *Almacen  `gorm:"foreignKey:AlmacenID"`
}

func (Inventario) TableName() string { return "inventarios" }

// MovimientoInventario is one kardex entry. Rows are append-only: corrections
// are new entries, never updates. Cantidad is always positive; Tipo carries
// the sign.
type MovimientoInventario struct {
	ID         uuid.UUID                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID                `gorm:"type:uuid;not null;index"`
	AlmacenID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Tipo       TipoMovimientoInventario `gorm:"type:varchar(10);not null"`
	Cantidad   int                      `gorm:"not null"`
	Motivo     string                   `gorm:"not null"`
	UsuarioID  *uuid.UUID               `gorm:"type:uuid"`
	// VentaID links movements produced by sales and voids.
	VentaID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Almacen  *Almacen  `gorm:"foreignKey:AlmacenID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
