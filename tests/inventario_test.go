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

type invEnv struct {
	svc   service.InventarioService
	inv   *fakeInventarioRepo
	prods *fakeProductoRepo
	sucs  *fakeSucursalRepo

	sucursal *model.Sucursal
	almacen  *model.Almacen
	producto *model.Producto
	usuario  uuid.UUID
}

func newInvEnv(t *testing.T) *invEnv {
	t.Helper()

	invRepo := newFakeInventarioRepo()
	prodRepo := newFakeProductoRepo()
	sucRepo := newFakeSucursalRepo()

	sucursal := &model.Sucursal{ID: uuid.New(), Nombre: "Central", Activo: true}
	sucRepo.sucursales[sucursal.ID] = sucursal

	almacen := &model.Almacen{ID: uuid.New(), Nombre: "Deposito Central", SucursalID: sucursal.ID, Activo: true}
	sucRepo.almacenes[almacen.ID] = almacen

	barcode := "7754321000012"
	producto := &model.Producto{
		ID:             uuid.New(),
		Nombre:         "Urban Step",
		CategoriaID:    uuid.New(),
		SucursalID:     sucursal.ID,
		AlmacenID:      almacen.ID,
		Talla:          "38",
		Color:          "blanco",
		PrecioCompra:   d("60.00"),
		PrecioVenta:    d("110.00"),
		CodigoBarras:   &barcode,
		Stock:          10,
		StockMinimo:    2,
		ControlarStock: true,
		Activo:         true,
	}
	prodRepo.productos[producto.ID] = producto
	invRepo.seed(producto.ID, almacen.ID, 10)

	return &invEnv{
		svc:      service.NewInventarioService(invRepo, prodRepo, sucRepo, nil),
		inv:      invRepo,
		prods:    prodRepo,
		sucs:     sucRepo,
		sucursal: sucursal,
		almacen:  almacen,
		producto: producto,
		usuario:  uuid.New(),
	}
}

func (e *invEnv) nuevoAlmacen(sucursalID uuid.UUID, nombre string) *model.Almacen {
	a := &model.Almacen{ID: uuid.New(), Nombre: nombre, SucursalID: sucursalID, Activo: true}
	e.sucs.almacenes[a.ID] = a
	return a
}

func TestActualizarStockGeneraDeltaSalida(t *testing.T) {
	env := newInvEnv(t)

	resp, err := env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Cantidad:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Cantidad)

	// 10 -> 4 lands as a SALIDA of 6, not an absolute snapshot.
	require.Len(t, env.inv.movimientos, 1)
	mov := env.inv.movimientos[0]
	assert.Equal(t, model.MovInvSalida, mov.Tipo)
	assert.Equal(t, 6, mov.Cantidad)
	assert.Equal(t, "Ajuste manual de inventario", mov.Motivo)

	assert.Equal(t, 4, env.prods.productos[env.producto.ID].Stock)
}

func TestActualizarStockGeneraDeltaEntrada(t *testing.T) {
	env := newInvEnv(t)

	_, err := env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Cantidad:   15,
	})
	require.NoError(t, err)

	require.Len(t, env.inv.movimientos, 1)
	assert.Equal(t, model.MovInvEntrada, env.inv.movimientos[0].Tipo)
	assert.Equal(t, 5, env.inv.movimientos[0].Cantidad)
	assert.Equal(t, 15, env.prods.productos[env.producto.ID].Stock)
}

func TestActualizarStockSinCambioNoRegistra(t *testing.T) {
	env := newInvEnv(t)

	_, err := env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Cantidad:   10,
	})
	require.NoError(t, err)
	assert.Empty(t, env.inv.movimientos)
}

func TestActualizarStockGuardaUbicacion(t *testing.T) {
	env := newInvEnv(t)

	ubicacion := "Pasillo 3, estante B"
	_, err := env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID:      env.producto.ID.String(),
		AlmacenID:       env.almacen.ID.String(),
		Cantidad:        10,
		UbicacionFisica: &ubicacion,
	})
	require.NoError(t, err)

	fila := env.inv.filas[invKey{env.producto.ID, env.almacen.ID}]
	require.NotNil(t, fila)
	assert.Equal(t, "Pasillo 3, estante B", fila.UbicacionFisica)
	// Same quantity: location persisted without a kardex entry.
	assert.Empty(t, env.inv.movimientos)

	// A later plain update keeps the stored location.
	_, err = env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Cantidad:   7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pasillo 3, estante B", fila.UbicacionFisica)
	assert.Equal(t, 7, fila.Cantidad)
}

func TestActualizarStockAlmacenNuevo(t *testing.T) {
	env := newInvEnv(t)
	otro := env.nuevoAlmacen(env.sucursal.ID, "Sala de Ventas")

	resp, err := env.svc.ActualizarStock(context.Background(), env.usuario, dto.ActualizarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  otro.ID.String(),
		Cantidad:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Cantidad)

	// Stock cache sums across warehouses.
	assert.Equal(t, 13, env.prods.productos[env.producto.ID].Stock)
}

func TestAjustarStockPositivo(t *testing.T) {
	env := newInvEnv(t)

	motivo := "Reposicion de proveedor"
	resp, err := env.svc.AjustarStock(context.Background(), env.usuario, dto.AjustarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Delta:      5,
		Motivo:     &motivo,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Cantidad)

	require.Len(t, env.inv.movimientos, 1)
	assert.Equal(t, model.MovInvEntrada, env.inv.movimientos[0].Tipo)
	assert.Equal(t, motivo, env.inv.movimientos[0].Motivo)
}

func TestAjustarStockNegativoInsuficiente(t *testing.T) {
	env := newInvEnv(t)

	_, err := env.svc.AjustarStock(context.Background(), env.usuario, dto.AjustarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Delta:      -20,
	})
	require.Error(t, err)

	var insuf *apierror.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "Urban Step", insuf.Producto)
	assert.Equal(t, 10, insuf.Disponible)
	assert.Equal(t, 20, insuf.Solicitado)
	assert.Equal(t, 10, env.inv.cantidad(env.producto.ID, env.almacen.ID))
}

func TestAjustarStockProductoInexistente(t *testing.T) {
	env := newInvEnv(t)

	_, err := env.svc.AjustarStock(context.Background(), env.usuario, dto.AjustarStockRequest{
		ProductoID: uuid.New().String(),
		AlmacenID:  env.almacen.ID.String(),
		Delta:      1,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apierror.StatusFor(err))
}

func TestTransferenciaMismaSucursalCreaTwin(t *testing.T) {
	env := newInvEnv(t)
	destino := env.nuevoAlmacen(env.sucursal.ID, "Sala de Ventas")

	resp, err := env.svc.Transferir(context.Background(), env.usuario, dto.TransferirStockRequest{
		ProductoID:       env.producto.ID.String(),
		AlmacenOrigenID:  env.almacen.ID.String(),
		AlmacenDestinoID: destino.ID.String(),
		Cantidad:         4,
	})
	require.NoError(t, err)

	// Even within the branch the units re-home to the destination's twin:
	// sales only decrement a product's home warehouse.
	require.True(t, resp.DestinoCreado)
	require.NotEqual(t, env.producto.ID.String(), resp.ProductoDestinoID)
	twinID := uuid.MustParse(resp.ProductoDestinoID)
	twin := env.prods.productos[twinID]
	require.NotNil(t, twin)
	assert.Equal(t, env.sucursal.ID, twin.SucursalID)
	assert.Equal(t, destino.ID, twin.AlmacenID)

	assert.Equal(t, 6, env.inv.cantidad(env.producto.ID, env.almacen.ID))
	assert.Equal(t, 4, env.inv.cantidad(twinID, destino.ID))
	assert.Equal(t, 6, env.prods.productos[env.producto.ID].Stock)
	assert.Equal(t, 4, twin.Stock)

	require.Len(t, env.inv.movimientos, 2)
	assert.Equal(t, model.MovInvSalida, env.inv.movimientos[0].Tipo)
	assert.Equal(t, model.MovInvEntrada, env.inv.movimientos[1].Tipo)
}

func TestTransferenciaMismaSucursalTwinExistente(t *testing.T) {
	env := newInvEnv(t)
	destino := env.nuevoAlmacen(env.sucursal.ID, "Sala de Ventas")

	twin := &model.Producto{
		ID:             uuid.New(),
		Nombre:         env.producto.Nombre,
		CategoriaID:    env.producto.CategoriaID,
		SucursalID:     env.sucursal.ID,
		AlmacenID:      destino.ID,
		Talla:          env.producto.Talla,
		Color:          env.producto.Color,
		PrecioCompra:   env.producto.PrecioCompra,
		PrecioVenta:    env.producto.PrecioVenta,
		ControlarStock: true,
		Activo:         true,
	}
	env.prods.productos[twin.ID] = twin
	env.inv.seed(twin.ID, destino.ID, 2)

	resp, err := env.svc.Transferir(context.Background(), env.usuario, dto.TransferirStockRequest{
		ProductoID:       env.producto.ID.String(),
		AlmacenOrigenID:  env.almacen.ID.String(),
		AlmacenDestinoID: destino.ID.String(),
		Cantidad:         3,
	})
	require.NoError(t, err)

	// Stock lands under the twin that lives at the destination, never under
	// the source product.
	assert.False(t, resp.DestinoCreado)
	assert.Equal(t, twin.ID.String(), resp.ProductoDestinoID)
	assert.Equal(t, 7, env.inv.cantidad(env.producto.ID, env.almacen.ID))
	assert.Equal(t, 5, env.inv.cantidad(twin.ID, destino.ID))
	assert.Equal(t, 0, env.inv.cantidad(env.producto.ID, destino.ID))
}

func TestTransferenciaOtraSucursalCreaTwin(t *testing.T) {
	env := newInvEnv(t)
	otraSucursal := &model.Sucursal{ID: uuid.New(), Nombre: "Norte", Activo: true}
	env.sucs.sucursales[otraSucursal.ID] = otraSucursal
	destino := env.nuevoAlmacen(otraSucursal.ID, "Deposito Norte")

	resp, err := env.svc.Transferir(context.Background(), env.usuario, dto.TransferirStockRequest{
		ProductoID:       env.producto.ID.String(),
		AlmacenOrigenID:  env.almacen.ID.String(),
		AlmacenDestinoID: destino.ID.String(),
		Cantidad:         4,
	})
	require.NoError(t, err)

	assert.True(t, resp.DestinoCreado)
	assert.NotEqual(t, env.producto.ID.String(), resp.ProductoDestinoID)

	twin := env.prods.productos[uuid.MustParse(resp.ProductoDestinoID)]
	require.NotNil(t, twin)
	assert.Equal(t, env.producto.Nombre, twin.Nombre)
	assert.Equal(t, env.producto.Talla, twin.Talla)
	assert.Equal(t, env.producto.Color, twin.Color)
	assert.Equal(t, otraSucursal.ID, twin.SucursalID)
	assert.Equal(t, destino.ID, twin.AlmacenID)
	// The twin never inherits the barcode.
	assert.Nil(t, twin.CodigoBarras)

	assert.Equal(t, 6, env.prods.productos[env.producto.ID].Stock)
	assert.Equal(t, 4, twin.Stock)
	assert.Equal(t, 4, env.inv.cantidad(twin.ID, destino.ID))
}

func TestTransferenciaTwinExistente(t *testing.T) {
	env := newInvEnv(t)
	otraSucursal := &model.Sucursal{ID: uuid.New(), Nombre: "Norte", Activo: true}
	env.sucs.sucursales[otraSucursal.ID] = otraSucursal
	destino := env.nuevoAlmacen(otraSucursal.ID, "Deposito Norte")

	twin := &model.Producto{
		ID:             uuid.New(),
		Nombre:         env.producto.Nombre,
		CategoriaID:    env.producto.CategoriaID,
		SucursalID:     otraSucursal.ID,
		AlmacenID:      destino.ID,
		Talla:          env.producto.Talla,
		Color:          env.producto.Color,
		ControlarStock: true,
		Activo:         true,
	}
	env.prods.productos[twin.ID] = twin
	env.inv.seed(twin.ID, destino.ID, 2)

	resp, err := env.svc.Transferir(context.Background(), env.usuario, dto.TransferirStockRequest{
		ProductoID:       env.producto.ID.String(),
		AlmacenOrigenID:  env.almacen.ID.String(),
		AlmacenDestinoID: destino.ID.String(),
		Cantidad:         3,
	})
	require.NoError(t, err)

	assert.False(t, resp.DestinoCreado)
	assert.Equal(t, twin.ID.String(), resp.ProductoDestinoID)
	assert.Equal(t, 5, env.inv.cantidad(twin.ID, destino.ID))
	assert.Equal(t, 5, twin.Stock)
}

func TestTransferenciaStockInsuficiente(t *testing.T) {
	env := newInvEnv(t)
	destino := env.nuevoAlmacen(env.sucursal.ID, "Sala de Ventas")

	_, err := env.svc.Transferir(context.Background(), env.usuario, dto.TransferirStockRequest{
		ProductoID:       env.producto.ID.String(),
		AlmacenOrigenID:  env.almacen.ID.String(),
		AlmacenDestinoID: destino.ID.String(),
		Cantidad:         11,
	})
	require.Error(t, err)

	var insuf *apierror.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 10, insuf.Disponible)
}

func TestReconciliarCorrigeDrift(t *testing.T) {
	env := newInvEnv(t)
	env.prods.productos[env.producto.ID].Stock = 99 // drifted cache

	resp, err := env.svc.Reconciliar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Revisados)
	assert.Equal(t, 1, resp.Corregidos)
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, 99, resp.Detalles[0].StockAnterior)
	assert.Equal(t, 10, resp.Detalles[0].StockReal)
	assert.Equal(t, 10, env.prods.productos[env.producto.ID].Stock)
}

func TestReconciliarSinDrift(t *testing.T) {
	env := newInvEnv(t)

	resp, err := env.svc.Reconciliar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Revisados)
	assert.Zero(t, resp.Corregidos)
	assert.Empty(t, resp.Detalles)
}

func TestKardexSiempreCantidadPositiva(t *testing.T) {
	env := newInvEnv(t)

	_, err := env.svc.AjustarStock(context.Background(), env.usuario, dto.AjustarStockRequest{
		ProductoID: env.producto.ID.String(),
		AlmacenID:  env.almacen.ID.String(),
		Delta:      -3,
	})
	require.NoError(t, err)

	require.Len(t, env.inv.movimientos, 1)
	mov := env.inv.movimientos[0]
	assert.Equal(t, model.MovInvSalida, mov.Tipo)
	assert.Equal(t, 3, mov.Cantidad)
}
