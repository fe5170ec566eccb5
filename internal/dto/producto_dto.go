package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2,max=150"`
	CategoriaID    string          `json:"categoria_id"    validate:"required,uuid"`
	SucursalID     string          `json:"sucursal_id"     validate:"required,uuid"`
	AlmacenID      string          `json:"almacen_id"      validate:"required,uuid"`
	Talla          string          `json:"talla"           validate:"required,max=20"`
	Color          string          `json:"color"           validate:"required,max=40"`
	PrecioCompra   decimal.Decimal `json:"precio_compra"   validate:"required"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"    validate:"required"`
	CodigoBarras   *string         `json:"codigo_barras"   validate:"omitempty,min=8,max=18"`
	CodigoInterno  *string         `json:"codigo_interno"`
	StockInicial   int             `json:"stock_inicial"   validate:"min=0"`
	StockMinimo    int             `json:"stock_minimo"    validate:"min=0"`
	ControlarStock *bool           `json:"controlar_stock"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,min=2,max=150"`
	CategoriaID    *string          `json:"categoria_id"    validate:"omitempty,uuid"`
	Talla          *string          `json:"talla"           validate:"omitempty,max=20"`
	Color          *string          `json:"color"           validate:"omitempty,max=40"`
	PrecioCompra   *decimal.Decimal `json:"precio_compra"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"`
	CodigoBarras   *string          `json:"codigo_barras"   validate:"omitempty,min=8,max=18"`
	CodigoInterno  *string          `json:"codigo_interno"`
	StockMinimo    *int             `json:"stock_minimo"    validate:"omitempty,min=0"`
	ControlarStock *bool            `json:"controlar_stock"`
	Activo         *bool            `json:"activo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Buscar      string `form:"buscar"` // matches nombre, codigo_barras or codigo_interno
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	SucursalID  string `form:"sucursal_id"  validate:"omitempty,uuid"`
	Talla       string `form:"talla"`
	Color       string `form:"color"`
	StockBajo   bool   `form:"stock_bajo"` // true = only rows with stock <= stock_minimo
	Activo      string `form:"activo,default=true"`
	PageFilter
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	CategoriaID    string          `json:"categoria_id"`
	Categoria      string          `json:"categoria"`
	SucursalID     string          `json:"sucursal_id"`
	AlmacenID      string          `json:"almacen_id"`
	Talla          string          `json:"talla"`
	Color          string          `json:"color"`
	PrecioCompra   decimal.Decimal `json:"precio_compra"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	CodigoBarras   *string         `json:"codigo_barras"`
	CodigoInterno  *string         `json:"codigo_interno"`
	Stock          int             `json:"stock"`
	StockMinimo    int             `json:"stock_minimo"`
	ControlarStock bool            `json:"controlar_stock"`
	Activo         bool            `json:"activo"`
}

// ConsultaBarcodeResponse is the cached payload served by the barcode lookup
// used from the sale screen; it carries only what the POS needs to add a line.
type ConsultaBarcodeResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Talla       string          `json:"talla"`
	Color       string          `json:"color"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Stock       int             `json:"stock"`
}
