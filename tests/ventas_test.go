package tests

import (
	"context"
	"testing"

	"github.com/Eduardv6/SisPOS-Backend/internal/apierror"
	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ventaEnv wires the sale service against in-memory repositories with one
// open register session and one product in stock.
type ventaEnv struct {
	svc      service.VentaService
	cajaRepo *fakeCajaRepo
	ventas   *fakeVentaRepo
	prods    *fakeProductoRepo
	inv      *fakeInventarioRepo

	caja     *model.Caja
	sesion   *model.SesionCaja
	producto *model.Producto
	usuario  uuid.UUID
}

func newVentaEnv(t *testing.T) *ventaEnv {
	t.Helper()

	cajaRepo := newFakeCajaRepo()
	ventaRepo := newFakeVentaRepo()
	prodRepo := newFakeProductoRepo()
	invRepo := newFakeInventarioRepo()
	sucRepo := newFakeSucursalRepo()
	clienteRepo := newFakeClienteRepo()

	usuario := uuid.New()
	caja := seedCaja(cajaRepo, "CAJA-001")
	caja.Estado = model.CajaOcupada
	caja.SaldoActual = d("100.00")

	sesion := &model.SesionCaja{
		ID:           uuid.New(),
		CajaID:       caja.ID,
		UsuarioID:    usuario,
		MontoInicial: d("100.00"),
		Estado:       model.SesionAbierta,
	}
	cajaRepo.sesiones[sesion.ID] = sesion

	almacenID := uuid.New()
	producto := &model.Producto{
		ID:             uuid.New(),
		Nombre:         "Runner Flex",
		CategoriaID:    uuid.New(),
		SucursalID:     caja.SucursalID,
		AlmacenID:      almacenID,
		Talla:          "40",
		Color:          "negro",
		PrecioCompra:   d("70.00"),
		PrecioVenta:    d("120.00"),
		Stock:          10,
		StockMinimo:    2,
		ControlarStock: true,
		Activo:         true,
	}
	prodRepo.productos[producto.ID] = producto
	invRepo.seed(producto.ID, almacenID, 10)

	invSvc := service.NewInventarioService(invRepo, prodRepo, sucRepo, nil)
	svc := service.NewVentaService(ventaRepo, cajaRepo, prodRepo, clienteRepo, invSvc)

	return &ventaEnv{
		svc:      svc,
		cajaRepo: cajaRepo,
		ventas:   ventaRepo,
		prods:    prodRepo,
		inv:      invRepo,
		caja:     caja,
		sesion:   sesion,
		producto: producto,
		usuario:  usuario,
	}
}

func (e *ventaEnv) registrar(t *testing.T, metodo string, cantidad int) *dto.VentaResponse {
	t.Helper()
	resp, err := e.svc.Registrar(context.Background(), e.usuario, dto.RegistrarVentaRequest{
		CajaID:        e.caja.ID.String(),
		TipoDocumento: "BOLETA",
		MetodoPago:    metodo,
		Items:         []dto.ItemVentaRequest{{ProductoID: e.producto.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

func TestRegistrarVentaEfectivo(t *testing.T) {
	env := newVentaEnv(t)

	resp := env.registrar(t, "efectivo", 2)

	assert.Equal(t, "BOLETA-00000001", resp.NumeroDocumento)
	assert.Equal(t, string(model.VentaCompletada), resp.Estado)
	assert.True(t, resp.Total.Equal(d("240.00")), "total %s", resp.Total)

	// Stock leaves through the ledger and the denormalized cache recomputes.
	assert.Equal(t, 8, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	assert.Equal(t, 8, env.prods.productos[env.producto.ID].Stock)

	require.Len(t, env.inv.movimientos, 1)
	mov := env.inv.movimientos[0]
	assert.Equal(t, model.MovInvSalida, mov.Tipo)
	assert.Equal(t, 2, mov.Cantidad)
	require.NotNil(t, mov.VentaID)
	assert.Equal(t, resp.ID, mov.VentaID.String())

	// Cash enters the register tied to the sale.
	require.Len(t, env.cajaRepo.movimientos, 1)
	ingreso := env.cajaRepo.movimientos[0]
	assert.Equal(t, model.MovCajaIngreso, ingreso.Tipo)
	assert.True(t, ingreso.Monto.Equal(d("240.00")))
	require.NotNil(t, ingreso.VentaID)
	assert.True(t, env.cajaRepo.cajas[env.caja.ID].SaldoActual.Equal(d("340.00")))
}

func TestRegistrarVentaQRNoMueveCaja(t *testing.T) {
	env := newVentaEnv(t)

	resp := env.registrar(t, "qr", 1)
	assert.Equal(t, string(model.VentaCompletada), resp.Estado)

	// Stock still moves, cash does not.
	assert.Equal(t, 9, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	assert.Empty(t, env.cajaRepo.movimientos)
	assert.True(t, env.cajaRepo.cajas[env.caja.ID].SaldoActual.Equal(d("100.00")))
}

func TestRegistrarVentaMixtoMueveCaja(t *testing.T) {
	env := newVentaEnv(t)

	env.registrar(t, "mixto", 1)
	require.Len(t, env.cajaRepo.movimientos, 1)
	assert.Equal(t, model.MovCajaIngreso, env.cajaRepo.movimientos[0].Tipo)
}

func TestNumeroDocumentoSecuencial(t *testing.T) {
	env := newVentaEnv(t)

	r1 := env.registrar(t, "efectivo", 1)
	r2 := env.registrar(t, "efectivo", 1)
	assert.Equal(t, "BOLETA-00000001", r1.NumeroDocumento)
	assert.Equal(t, "BOLETA-00000002", r2.NumeroDocumento)

	// Each document type runs its own sequence.
	r3, err := env.svc.Registrar(context.Background(), env.usuario, dto.RegistrarVentaRequest{
		CajaID:        env.caja.ID.String(),
		TipoDocumento: "TICKET",
		MetodoPago:    "qr",
		Items:         []dto.ItemVentaRequest{{ProductoID: env.producto.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TICKET-00000001", r3.NumeroDocumento)
}

func TestRegistrarVentaPrecioOverride(t *testing.T) {
	env := newVentaEnv(t)

	promo := d("99.90")
	resp, err := env.svc.Registrar(context.Background(), env.usuario, dto.RegistrarVentaRequest{
		CajaID:        env.caja.ID.String(),
		TipoDocumento: "TICKET",
		MetodoPago:    "efectivo",
		Items:         []dto.ItemVentaRequest{{ProductoID: env.producto.ID.String(), Cantidad: 2, PrecioUnitario: &promo}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(d("199.80")), "total %s", resp.Total)

	// Purchase price freezes on the line for the real-profit report.
	venta := env.ventas.ventas[uuid.MustParse(resp.ID)]
	require.Len(t, venta.Detalles, 1)
	assert.True(t, venta.Detalles[0].PrecioCompra.Equal(d("70.00")))
	assert.True(t, venta.Detalles[0].PrecioUnitario.Equal(promo))
}

func TestRegistrarVentaSinSesionAbierta(t *testing.T) {
	env := newVentaEnv(t)
	libre := seedCaja(env.cajaRepo, "CAJA-002")

	_, err := env.svc.Registrar(context.Background(), env.usuario, dto.RegistrarVentaRequest{
		CajaID:        libre.ID.String(),
		TipoDocumento: "BOLETA",
		MetodoPago:    "efectivo",
		Items:         []dto.ItemVentaRequest{{ProductoID: env.producto.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 409, apierror.StatusFor(err))
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	env := newVentaEnv(t)

	_, err := env.svc.Registrar(context.Background(), env.usuario, dto.RegistrarVentaRequest{
		CajaID:        env.caja.ID.String(),
		TipoDocumento: "BOLETA",
		MetodoPago:    "efectivo",
		Items:         []dto.ItemVentaRequest{{ProductoID: env.producto.ID.String(), Cantidad: 20}},
	})
	require.Error(t, err)

	var insuf *apierror.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "Runner Flex", insuf.Producto)
	assert.Equal(t, 10, insuf.Disponible)
	assert.Equal(t, 20, insuf.Solicitado)

	// The conditional decrement never touched the row.
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	env := newVentaEnv(t)
	env.producto.Activo = false

	_, err := env.svc.Registrar(context.Background(), env.usuario, dto.RegistrarVentaRequest{
		CajaID:        env.caja.ID.String(),
		TipoDocumento: "BOLETA",
		MetodoPago:    "efectivo",
		Items:         []dto.ItemVentaRequest{{ProductoID: env.producto.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 409, apierror.StatusFor(err))
}

func TestVentaSinControlDeStock(t *testing.T) {
	env := newVentaEnv(t)
	env.producto.ControlarStock = false

	env.registrar(t, "efectivo", 3)

	// No kardex, no ledger change for this product.
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	assert.Empty(t, env.inv.movimientos)
}

func TestAnularVenta(t *testing.T) {
	env := newVentaEnv(t)

	venta := env.registrar(t, "efectivo", 2)
	saldoTrasVenta := env.cajaRepo.cajas[env.caja.ID].SaldoActual

	resp, err := env.svc.Anular(context.Background(), uuid.MustParse(venta.ID), env.usuario, "cliente devolvio el par")
	require.NoError(t, err)
	assert.Equal(t, string(model.VentaAnulada), resp.Estado)

	// Stock returns through an ENTRADA tied to the sale.
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	assert.Equal(t, 10, env.prods.productos[env.producto.ID].Stock)

	entrada := env.inv.movimientos[len(env.inv.movimientos)-1]
	assert.Equal(t, model.MovInvEntrada, entrada.Tipo)
	assert.Equal(t, 2, entrada.Cantidad)
	require.NotNil(t, entrada.VentaID)
	assert.Contains(t, entrada.Motivo, "Anulacion venta BOLETA-00000001")

	// Cash leaves via RETIRO because the session is still open.
	retiro := env.cajaRepo.movimientos[len(env.cajaRepo.movimientos)-1]
	assert.Equal(t, model.MovCajaRetiro, retiro.Tipo)
	require.NotNil(t, retiro.VentaID)
	assert.True(t, env.cajaRepo.cajas[env.caja.ID].SaldoActual.Equal(saldoTrasVenta.Sub(d("240.00"))))
}

func TestAnularVentaDosVeces(t *testing.T) {
	env := newVentaEnv(t)

	venta := env.registrar(t, "efectivo", 1)
	_, err := env.svc.Anular(context.Background(), uuid.MustParse(venta.ID), env.usuario, "primer intento")
	require.NoError(t, err)

	_, err = env.svc.Anular(context.Background(), uuid.MustParse(venta.ID), env.usuario, "segundo intento")
	require.Error(t, err)
	assert.Equal(t, 409, apierror.StatusFor(err))

	// The rejected retry must not restore stock or move cash again.
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	entradas := 0
	for _, m := range env.inv.movimientos {
		if m.Tipo == model.MovInvEntrada {
			entradas++
		}
	}
	assert.Equal(t, 1, entradas)
	retiros := 0
	for _, m := range env.cajaRepo.movimientos {
		if m.Tipo == model.MovCajaRetiro {
			retiros++
		}
	}
	assert.Equal(t, 1, retiros)
}

func TestAnularVentaConSesionCerrada(t *testing.T) {
	env := newVentaEnv(t)

	venta := env.registrar(t, "efectivo", 2)
	movimientosAntes := len(env.cajaRepo.movimientos)
	saldoAntes := env.cajaRepo.cajas[env.caja.ID].SaldoActual

	// The session already settled its arqueo.
	env.sesion.Estado = model.SesionCerrada

	resp, err := env.svc.Anular(context.Background(), uuid.MustParse(venta.ID), env.usuario, "devolucion tardia")
	require.NoError(t, err)
	assert.Equal(t, string(model.VentaAnulada), resp.Estado)

	// Stock returns, cash does not.
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
	assert.Len(t, env.cajaRepo.movimientos, movimientosAntes)
	assert.True(t, env.cajaRepo.cajas[env.caja.ID].SaldoActual.Equal(saldoAntes))
}

func TestAnularVentaQRNoMueveCaja(t *testing.T) {
	env := newVentaEnv(t)

	venta := env.registrar(t, "qr", 1)
	_, err := env.svc.Anular(context.Background(), uuid.MustParse(venta.ID), env.usuario, "pago revertido por QR")
	require.NoError(t, err)

	assert.Empty(t, env.cajaRepo.movimientos)
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.producto.AlmacenID))
}

func TestAnularVentaInexistente(t *testing.T) {
	env := newVentaEnv(t)

	_, err := env.svc.Anular(context.Background(), uuid.New(), env.usuario, "no existe")
	require.Error(t, err)
	assert.Equal(t, 404, apierror.StatusFor(err))
}

func TestVentaEfectivoEntraEnArqueo(t *testing.T) {
	env := newVentaEnv(t)
	cajaSvc := service.NewCajaService(env.cajaRepo, env.ventas, nil)

	env.registrar(t, "efectivo", 2) // 240 en efectivo
	env.registrar(t, "qr", 1)       // no entra al arqueo

	arqueo, err := cajaSvc.Cerrar(context.Background(), env.caja.ID, env.usuario, dto.CerrarCajaRequest{MontoFinal: dp("340.00")})
	require.NoError(t, err)

	// esperado = 100 opening + 240 cash; the QR sale stays out.
	assert.True(t, arqueo.VentasEfectivo.Equal(d("240.00")), "ventas efectivo %s", arqueo.VentasEfectivo)
	assert.Equal(t, int64(1), arqueo.TotalVentas)
	assert.True(t, arqueo.MontoEsperado.Equal(d("340.00")))
	assert.True(t, arqueo.Diferencia.IsZero())
}
