package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCajaRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,min=2,max=40"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	SucursalID   string          `json:"sucursal_id"   validate:"required,uuid"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

// ActualizarCajaRequest patches register metadata. Nil fields keep their
// current value.
type ActualizarCajaRequest struct {
	Codigo *string `json:"codigo" validate:"omitempty,min=2,max=40"`
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=120"`
}

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

// CerrarCajaRequest closes the active session. An omitted monto_final counts
// as "closed at the running balance", producing a zero-difference arqueo.
type CerrarCajaRequest struct {
	MontoFinal    *decimal.Decimal `json:"monto_final" validate:"omitempty,min=0"`
	Observaciones *string          `json:"observaciones"`
}

type MovimientoCajaRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	SucursalID   string          `json:"sucursal_id"`
	Sucursal     string          `json:"sucursal"`
	Estado       string          `json:"estado"`
	SaldoActual  decimal.Decimal `json:"saldo_actual"`
	SesionActiva *SesionResumen  `json:"sesion_activa"`
}

type SesionResumen struct {
	ID           string          `json:"id"`
	UsuarioID    string          `json:"usuario_id"`
	Usuario      string          `json:"usuario"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
	FechaInicio  string          `json:"fecha_inicio"`
}

type MovimientoCajaResponse struct {
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"`
	Monto     decimal.Decimal `json:"monto"`
	Motivo    string          `json:"motivo"`
	UsuarioID string          `json:"usuario_id"`
	VentaID   *string         `json:"venta_id"`
	Fecha     string          `json:"fecha"`
}

// ArqueoResponse is the closing summary returned by the close operation.
// Diferencia = monto declarado - monto esperado; negative means missing cash.
type ArqueoResponse struct {
	SesionID       string          `json:"sesion_id"`
	CajaID         string          `json:"caja_id"`
	MontoInicial   decimal.Decimal `json:"monto_inicial"`
	VentasEfectivo decimal.Decimal `json:"ventas_efectivo"`
	Ingresos       decimal.Decimal `json:"ingresos"`
	Retiros        decimal.Decimal `json:"retiros"`
	MontoEsperado  decimal.Decimal `json:"monto_esperado"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado"`
	Diferencia     decimal.Decimal `json:"diferencia"`
	TotalVentas    int64           `json:"total_ventas"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
}

type SesionCajaResponse struct {
	ID           string           `json:"id"`
	CajaID       string           `json:"caja_id"`
	Caja         string           `json:"caja"`
	UsuarioID    string           `json:"usuario_id"`
	Usuario      string           `json:"usuario"`
	MontoInicial decimal.Decimal  `json:"monto_inicial"`
	MontoFinal   *decimal.Decimal `json:"monto_final"`
	Estado       string           `json:"estado"`
	FechaInicio  string           `json:"fecha_inicio"`
	FechaFin     *string          `json:"fecha_fin"`
}

type SesionFilter struct {
	CajaID    string `form:"caja_id"    validate:"omitempty,uuid"`
	UsuarioID string `form:"usuario_id" validate:"omitempty,uuid"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=ABIERTA CERRADA"`
	Desde     string `form:"desde"`
	Hasta     string `form:"hasta"`
	PageFilter
}

// MovimientoCajaFilter scopes the cross-session cash ledger listing.
type MovimientoCajaFilter struct {
	CajaID    string `form:"caja_id"    validate:"omitempty,uuid"`
	SesionID  string `form:"sesion_id"  validate:"omitempty,uuid"`
	UsuarioID string `form:"usuario_id" validate:"omitempty,uuid"`
	Tipo      string `form:"tipo"       validate:"omitempty,oneof=APERTURA CIERRE INGRESO RETIRO"`
	Desde     string `form:"desde"` // YYYY-MM-DD
	Hasta     string `form:"hasta"`
	PageFilter
}
