package model

// Estado values are closed sets stored as varchar. Uppercase values mirror
// what operators see on screen; metodo de pago and estado de venta stay
// lowercase for frontend compatibility.

type EstadoCaja string

const (
	CajaLibre   EstadoCaja = "LIBRE"
	CajaOcupada EstadoCaja = "OCUPADA"
	CajaCerrada EstadoCaja = "CERRADA"
)

type EstadoSesion string

const (
	SesionAbierta EstadoSesion = "ABIERTA"
	SesionCerrada EstadoSesion = "CERRADA"
)

type TipoMovimientoCaja string

const (
	MovCajaApertura TipoMovimientoCaja = "APERTURA"
	MovCajaIngreso  TipoMovimientoCaja = "INGRESO"
	MovCajaRetiro   TipoMovimientoCaja = "RETIRO"
	MovCajaCierre   TipoMovimientoCaja = "CIERRE"
)

type TipoMovimientoInventario string

const (
	MovInvEntrada TipoMovimientoInventario = "ENTRADA"
	MovInvSalida  TipoMovimientoInventario = "SALIDA"
)

type EstadoVenta string

const (
	VentaCompletada EstadoVenta = "completada"
	VentaAnulada    EstadoVenta = "anulada"
)

type MetodoPago string

const (
	PagoEfectivo MetodoPago = "efectivo"
	PagoQR       MetodoPago = "qr"
	PagoMixto    MetodoPago = "mixto"
)

// EsEfectivo reports whether the method moves cash through the register.
// Mixto always has a cash component, so it counts.
func (m MetodoPago) EsEfectivo() bool {
	return m == PagoEfectivo || m == PagoMixto
}

type TipoDocumento string

const (
	DocTicket  TipoDocumento = "TICKET"
	DocBoleta  TipoDocumento = "BOLETA"
	DocFactura TipoDocumento = "FACTURA"
)

type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolVendedor      Rol = "vendedor"
	RolCajero        Rol = "cajero"
)
