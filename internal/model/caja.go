package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja is a physical register. Estado transitions only through the session
// lifecycle: LIBRE --abrir--> OCUPADA --cerrar--> LIBRE. CERRADA marks a
// register taken out of service.
type Caja struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string     `gorm:"not null"`
	Codigo     string     `gorm:"uniqueIndex;not null"`
	SucursalID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Estado     EstadoCaja `gorm:"type:varchar(10);not null;default:'LIBRE'"`
	// SaldoInicial/SaldoActual are only meaningful while OCUPADA; both reset
	// to zero on close.
	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SaldoActual  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sucursal *Sucursal    `gorm:"foreignKey:SucursalID"`
	Sesiones []SesionCaja `gorm:"foreignKey:CajaID"`
}

// SesionCaja is one open-to-close operating period of a register, scoped to
// one operator. At most one ABIERTA session exists per caja — enforced by a
// partial unique index (see infra.applySchemaPatches) on top of the
// application check.
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoFinal   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado       EstadoSesion     `gorm:"type:varchar(10);not null;default:'ABIERTA'"`
	FechaInicio  time.Time        `gorm:"not null"`
	FechaFin     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Caja        *Caja            `gorm:"foreignKey:CajaID"`
	Usuario     *Usuario         `gorm:"foreignKey:UsuarioID"`
	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable event in the cash ledger of a session.
// Movements are NEVER modified or deleted — corrections create inverse
// entries. VentaID is set on movements generated by a sale (INGRESO) or its
// void (RETIRO), so arqueo math can separate manual deposits/withdrawals
// from sale-driven cash flow.
type MovimientoCaja struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Tipo         TipoMovimientoCaja `gorm:"type:varchar(10);not null"`
	Monto        decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Motivo       string             `gorm:"not null"`
	UsuarioID    uuid.UUID          `gorm:"type:uuid;not null"`
	VentaID      *uuid.UUID         `gorm:"type:uuid;index"`
	Fecha        time.Time          `gorm:"not null;index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
