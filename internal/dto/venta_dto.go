package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     string           `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"` // nil = current list price
}

type RegistrarVentaRequest struct {
	CajaID        string             `json:"caja_id"        validate:"required,uuid"`
	ClienteID     *string            `json:"cliente_id"     validate:"omitempty,uuid"`
	TipoDocumento string             `json:"tipo_documento" validate:"required,oneof=TICKET BOLETA FACTURA"`
	MetodoPago    string             `json:"metodo_pago"    validate:"required,oneof=efectivo qr mixto"`
	Items         []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type VentaFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	CajaID     string `form:"caja_id"     validate:"omitempty,uuid"`
	UsuarioID  string `form:"usuario_id"  validate:"omitempty,uuid"`
	ClienteID  string `form:"cliente_id"  validate:"omitempty,uuid"`
	Estado     string `form:"estado"      validate:"omitempty,oneof=completada anulada"`
	MetodoPago string `form:"metodo_pago" validate:"omitempty,oneof=efectivo qr mixto"`
	Desde      string `form:"desde"` // YYYY-MM-DD
	Hasta      string `form:"hasta"`
	PageFilter
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Talla          string          `json:"talla"`
	Color          string          `json:"color"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID              string                 `json:"id"`
	NumeroDocumento string                 `json:"numero_documento"`
	TipoDocumento   string                 `json:"tipo_documento"`
	MetodoPago      string                 `json:"metodo_pago"`
	Total           decimal.Decimal        `json:"total"`
	Estado          string                 `json:"estado"`
	UsuarioID       string                 `json:"usuario_id"`
	Usuario         string                 `json:"usuario"`
	SucursalID      string                 `json:"sucursal_id"`
	CajaID          string                 `json:"caja_id"`
	SesionCajaID    string                 `json:"sesion_caja_id"`
	ClienteID       *string                `json:"cliente_id"`
	Cliente         *string                `json:"cliente"`
	Detalles        []DetalleVentaResponse `json:"detalles"`
	Fecha           string                 `json:"fecha"`
}
