package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ActualizarStockRequest sets the absolute quantity for (producto, almacen).
// The delta against the previous quantity is recorded as a kardex movement.
type ActualizarStockRequest struct {
	ProductoID      string  `json:"producto_id"      validate:"required,uuid"`
	AlmacenID       string  `json:"almacen_id"       validate:"required,uuid"`
	Cantidad        int     `json:"cantidad"         validate:"min=0"`
	Motivo          *string `json:"motivo"`
	UbicacionFisica *string `json:"ubicacion_fisica" validate:"omitempty,max=120"`
}

// AjustarStockRequest applies a signed delta to (producto, almacen).
type AjustarStockRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	AlmacenID  string  `json:"almacen_id"  validate:"required,uuid"`
	Delta      int     `json:"delta"       validate:"required"`
	Motivo     *string `json:"motivo"`
}

type TransferirStockRequest struct {
	ProductoID       string  `json:"producto_id"        validate:"required,uuid"`
	AlmacenOrigenID  string  `json:"almacen_origen_id"  validate:"required,uuid"`
	AlmacenDestinoID string  `json:"almacen_destino_id" validate:"required,uuid,nefield=AlmacenOrigenID"`
	Cantidad         int     `json:"cantidad"           validate:"required,min=1"`
	Motivo           *string `json:"motivo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type InventarioFilter struct {
	AlmacenID  string `form:"almacen_id"  validate:"omitempty,uuid"`
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	Buscar     string `form:"buscar"`
	StockBajo  bool   `form:"stock_bajo"`
	PageFilter
}

type MovimientoInvFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	AlmacenID  string `form:"almacen_id"  validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=ENTRADA SALIDA"`
	Desde      string `form:"desde"` // YYYY-MM-DD
	Hasta      string `form:"hasta"`
	PageFilter
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioResponse struct {
	ID              string `json:"id"`
	ProductoID      string `json:"producto_id"`
	Producto        string `json:"producto"`
	Talla           string `json:"talla"`
	Color           string `json:"color"`
	AlmacenID       string `json:"almacen_id"`
	Almacen         string `json:"almacen"`
	Cantidad        int    `json:"cantidad"`
	StockMinimo     int    `json:"stock_minimo"`
	UbicacionFisica string `json:"ubicacion_fisica"`
}

type MovimientoInvResponse struct {
	ID         string  `json:"id"`
	ProductoID string  `json:"producto_id"`
	Producto   string  `json:"producto"`
	AlmacenID  string  `json:"almacen_id"`
	Almacen    string  `json:"almacen"`
	Tipo       string  `json:"tipo"`
	Cantidad   int     `json:"cantidad"`
	Motivo     string  `json:"motivo"`
	UsuarioID  *string `json:"usuario_id"`
	VentaID    *string `json:"venta_id"`
	Fecha      string  `json:"fecha"`
}

type TransferenciaResponse struct {
	ProductoOrigenID  string `json:"producto_origen_id"`
	ProductoDestinoID string `json:"producto_destino_id"`
	AlmacenOrigenID   string `json:"almacen_origen_id"`
	AlmacenDestinoID  string `json:"almacen_destino_id"`
	Cantidad          int    `json:"cantidad"`
	DestinoCreado     bool   `json:"destino_creado"`
}

// ReconciliacionResponse reports products whose denormalized stock was
// out of sync with the sum of their inventory rows.
type ReconciliacionResponse struct {
	Revisados  int                      `json:"revisados"`
	Corregidos int                      `json:"corregidos"`
	Detalles   []ReconciliacionDiscrep  `json:"detalles"`
}

type ReconciliacionDiscrep struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto"`
	StockAnterior int    `json:"stock_anterior"`
	StockReal     int    `json:"stock_real"`
}
