package dto

import "github.com/shopspring/decimal"

// ─── Filters ─────────────────────────────────────────────────────────────────

// RangoFilter is the date-range pair most reports accept. Dates are
// YYYY-MM-DD; the end date is inclusive through 23:59:59.
type RangoFilter struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
}

type PeriodoFilter struct {
	Periodo string `form:"periodo,default=mensual" validate:"omitempty,oneof=diario semanal mensual"`
	Fecha   string `form:"fecha"`
	RangoFilter
}

type RotacionFilter struct {
	Dias int `form:"dias,default=90" validate:"min=1,max=730"`
}

type ReporteCajasFilter struct {
	UsuarioID string `form:"usuario_id" validate:"omitempty,uuid"`
	CajaID    string `form:"caja_id"    validate:"omitempty,uuid"`
	RangoFilter
}

// ─── Ventas por periodo ──────────────────────────────────────────────────────

type VentasDiaResumen struct {
	Fecha    string          `json:"fecha"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type VentasPorPeriodoResponse struct {
	Periodo string `json:"periodo"`
	Rango   struct {
		Inicio string `json:"inicio"`
		Fin    string `json:"fin"`
	} `json:"rango"`
	Totales struct {
		CantidadVentas int64           `json:"cantidadVentas"`
		TotalEfectivo  decimal.Decimal `json:"totalEfectivo"`
		TotalQR        decimal.Decimal `json:"totalQR"`
		TotalBruto     decimal.Decimal `json:"totalBruto"`
	} `json:"totales"`
	DetallePorFecha []VentasDiaResumen `json:"detallePorFecha"`
}

// ─── Ganancia real ───────────────────────────────────────────────────────────

// GananciaResponse computes gross profit from the historical cost frozen on
// each sale line, not the product's current purchase price.
type GananciaResponse struct {
	Periodo RangoFilter `json:"periodo"`
	Resumen struct {
		VentaTotal    decimal.Decimal `json:"ventaTotal"`
		CostoTotal    decimal.Decimal `json:"costoTotal"`
		UtilidadBruta decimal.Decimal `json:"utilidadBruta"`
		MargenPct     decimal.Decimal `json:"margenPct"`
	} `json:"resumen"`
}

// ─── Metodo de pago ──────────────────────────────────────────────────────────

type MetodoPagoResumen struct {
	MetodoPago string          `json:"metodoPago"`
	Cantidad   int64           `json:"cantidad"`
	Total      decimal.Decimal `json:"total"`
}

// ClienteVentaResumen ranks an identified customer by completed-sale spend.
type ClienteVentaResumen struct {
	ClienteID      string          `json:"clienteId"`
	Nombre         string          `json:"nombre"`
	Compras        int64           `json:"compras"`
	Total          decimal.Decimal `json:"total"`
	TicketPromedio decimal.Decimal `json:"ticketPromedio"`
	UltimaCompra   string          `json:"ultimaCompra"`
}

// ─── Inventario valorado ─────────────────────────────────────────────────────

type InventarioValoradoLinea struct {
	Producto      string          `json:"producto"`
	CodigoBarras  *string         `json:"codigoBarras"`
	Categoria     string          `json:"categoria"`
	Almacen       string          `json:"almacen"`
	Sucursal      string          `json:"sucursal"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costoUnitario"`
	ValorTotal    decimal.Decimal `json:"valorTotal"`
}

type InventarioValoradoResponse struct {
	Resumen struct {
		TotalProductos int             `json:"totalProductos"`
		TotalUnidades  int             `json:"totalUnidades"`
		ValorTotal     decimal.Decimal `json:"valorTotalInventario"`
	} `json:"resumen"`
	Detalle []InventarioValoradoLinea `json:"detalle"`
}

// ─── Rotacion (productos sin movimiento) ─────────────────────────────────────

type ProductoSinMovimiento struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	CodigoBarras *string         `json:"codigoBarras"`
	Categoria    string          `json:"categoria"`
	StockTotal   int             `json:"stockTotal"`
	PrecioVenta  decimal.Decimal `json:"precioVenta"`
	Costo        decimal.Decimal `json:"costo"`
}

type RotacionResponse struct {
	DiasSinVenta       int                     `json:"diasSinVenta"`
	CantidadProductos  int                     `json:"cantidadProductos"`
	Productos          []ProductoSinMovimiento `json:"productos"`
}

// ─── Kardex ──────────────────────────────────────────────────────────────────

type KardexProductoResponse struct {
	Producto struct {
		Nombre       string  `json:"nombre"`
		CodigoBarras *string `json:"codigoBarras"`
		Stock        int     `json:"stock"`
	} `json:"producto"`
	Movimientos []MovimientoInvResponse `json:"movimientos"`
}

// ─── Top categorias / tallas ─────────────────────────────────────────────────

type CategoriaVentaResumen struct {
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type TallaVentaResumen struct {
	Talla    string          `json:"talla"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

// ─── Reporte de cajas ────────────────────────────────────────────────────────

type SesionCajaReporte struct {
	ID             string           `json:"id"`
	FechaApertura  string           `json:"fechaApertura"`
	FechaCierre    *string          `json:"fechaCierre"`
	Estado         string           `json:"estado"`
	Caja           string           `json:"caja"`
	Sucursal       string           `json:"sucursal"`
	Usuario        string           `json:"usuario"`
	MontoInicial   decimal.Decimal  `json:"montoInicial"`
	VentasEfectivo decimal.Decimal  `json:"ventasEfectivo"`
	VentasQR       decimal.Decimal  `json:"ventasQR"`
	Ingresos       decimal.Decimal  `json:"ingresos"`
	Retiros        decimal.Decimal  `json:"retiros"`
	TotalVendido   decimal.Decimal  `json:"totalVendido"`
	MontoFinal     *decimal.Decimal `json:"montoFinal"`
	SaldoTeorico   decimal.Decimal  `json:"saldoTeorico"`
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

type TopProducto struct {
	ID       string          `json:"id"`
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad,omitempty"`
	Monto    decimal.Decimal `json:"monto,omitempty"`
}

type DashboardStatsResponse struct {
	TotalVentas          decimal.Decimal   `json:"totalVentas"`
	ProductosVendidos    int               `json:"productosVendidos"`
	Ganancias            decimal.Decimal   `json:"ganancias"`
	CambioVentas         decimal.Decimal   `json:"cambioVentas"`
	CambioProductos      decimal.Decimal   `json:"cambioProductos"`
	CambioGanancias      decimal.Decimal   `json:"cambioGanancias"`
	VentasPorMes         []decimal.Decimal `json:"ventasPorMes"`
	TopProductosCantidad []TopProducto     `json:"topProductosCantidad"`
	TopProductosMonto    []TopProducto     `json:"topProductosMonto"`
}
