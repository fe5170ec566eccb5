package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a shoe SKU: one (nombre, talla, color) combination per branch.
// Stock is a denormalized cache of SUM(inventarios.cantidad); every ledger
// mutation recomputes it, and the reconciliation job re-derives it on a timer.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	CategoriaID uuid.UUID `gorm:"type:uuid;not null;index"`
	SucursalID  uuid.UUID `gorm:"type:uuid;not null;index"`
	// AlmacenID is the default warehouse where sales decrement stock.
	AlmacenID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Talla        string    `gorm:"type:varchar(20);not null"`
	Color        string    `gorm:"type:varchar(40);not null"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// CodigoBarras is unique when present; twins created by transfers carry nil.
	CodigoBarras   *string `gorm:"uniqueIndex"`
	CodigoInterno  *string `gorm:"index"`
	Stock          int     `gorm:"not null;default:0"`
	StockMinimo    int     `gorm:"not null;default:0"`
	ControlarStock bool    `gorm:"not null;default:true"`
	Activo         bool    `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria   *Categoria  `gorm:"foreignKey:CategoriaID"`
	Sucursal    *Sucursal   `gorm:"foreignKey:SucursalID"`
	Almacen     *Almacen    `gorm:"foreignKey:AlmacenID"`
	Inventarios []Inventario `gorm:"foreignKey:ProductoID"`
}
