package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a completed (or voided) sale. Created atomically with its
// detalles, the inventory decrements, and the caja INGRESO when the payment
// method moves cash.
type Venta struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	SucursalID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	CajaID          uuid.UUID     `gorm:"type:uuid;not null"`
	SesionCajaID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	ClienteID       *uuid.UUID    `gorm:"type:uuid;index"`
	TipoDocumento   TipoDocumento `gorm:"type:varchar(10);not null;default:'TICKET'"`
	NumeroDocumento string        `gorm:"uniqueIndex;not null"`
	MetodoPago      MetodoPago    `gorm:"type:varchar(10);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          EstadoVenta     `gorm:"type:varchar(12);not null;default:'completada'"`
	Fecha           time.Time       `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Sesion   *SesionCaja    `gorm:"foreignKey:SesionCajaID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

// DetalleVenta is one sale line. PrecioUnitario and PrecioCompra are frozen
// at sale time so margin reports use historical cost, not current cost.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCompra   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }

// DocumentoSecuencia holds the last assigned document number per tipo.
// The row is locked (SELECT ... FOR UPDATE) inside the sale transaction so
// numbers are gapless-sequential per document type.
type DocumentoSecuencia struct {
	Tipo         TipoDocumento `gorm:"type:varchar(10);primaryKey"`
	UltimoNumero int64         `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (DocumentoSecuencia) TableName() string { return "documento_secuencias" }
