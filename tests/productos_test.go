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

type prodEnv struct {
	svc       service.ProductoService
	prods     *fakeProductoRepo
	inv       *fakeInventarioRepo
	categoria *model.Categoria
	sucursal  uuid.UUID
	almacen   uuid.UUID
}

func newProdEnv(t *testing.T) *prodEnv {
	t.Helper()

	prodRepo := newFakeProductoRepo()
	invRepo := newFakeInventarioRepo()
	catRepo := newFakeCategoriaRepo()

	categoria := &model.Categoria{ID: uuid.New(), Nombre: "Zapatillas", Activo: true}
	catRepo.categorias[categoria.ID] = categoria

	return &prodEnv{
		svc:       service.NewProductoService(prodRepo, invRepo, catRepo, nil),
		prods:     prodRepo,
		inv:       invRepo,
		categoria: categoria,
		sucursal:  uuid.New(),
		almacen:   uuid.New(),
	}
}

func (e *prodEnv) crearRequest(barcode *string, stockInicial int) dto.CrearProductoRequest {
	return dto.CrearProductoRequest{
		Nombre:       "Runner Flex",
		CategoriaID:  e.categoria.ID.String(),
		SucursalID:   e.sucursal.String(),
		AlmacenID:    e.almacen.String(),
		Talla:        "41",
		Color:        "negro",
		PrecioCompra: d("70.00"),
		PrecioVenta:  d("120.00"),
		CodigoBarras: barcode,
		StockInicial: stockInicial,
		StockMinimo:  3,
	}
}

func TestCrearProductoConStockInicial(t *testing.T) {
	env := newProdEnv(t)
	barcode := "7754321000029"

	resp, err := env.svc.Crear(context.Background(), env.crearRequest(&barcode, 12))
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	assert.Equal(t, 12, env.prods.productos[id].Stock)
	assert.Equal(t, 12, env.inv.cantidad(id, env.almacen))

	// Opening stock enters the kardex like any other movement.
	require.Len(t, env.inv.movimientos, 1)
	mov := env.inv.movimientos[0]
	assert.Equal(t, model.MovInvEntrada, mov.Tipo)
	assert.Equal(t, 12, mov.Cantidad)
	assert.Equal(t, "Stock inicial", mov.Motivo)
}

func TestCrearProductoSinStockInicial(t *testing.T) {
	env := newProdEnv(t)

	resp, err := env.svc.Crear(context.Background(), env.crearRequest(nil, 0))
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	assert.Zero(t, env.prods.productos[id].Stock)
	assert.Empty(t, env.inv.movimientos)
	assert.Equal(t, 0, env.inv.cantidad(id, env.almacen))
}

func TestCrearProductoBarcodeDuplicado(t *testing.T) {
	env := newProdEnv(t)
	barcode := "7754321000029"

	_, err := env.svc.Crear(context.Background(), env.crearRequest(&barcode, 0))
	require.NoError(t, err)

	_, err = env.svc.Crear(context.Background(), env.crearRequest(&barcode, 0))
	require.Error(t, err)
	assert.Equal(t, 409, apierror.StatusFor(err))
}

func TestCrearProductoCategoriaInexistente(t *testing.T) {
	env := newProdEnv(t)
	req := env.crearRequest(nil, 0)
	req.CategoriaID = uuid.New().String()

	_, err := env.svc.Crear(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 404, apierror.StatusFor(err))
}

func TestBuscarPorBarcode(t *testing.T) {
	env := newProdEnv(t)
	barcode := "7754321000036"

	creado, err := env.svc.Crear(context.Background(), env.crearRequest(&barcode, 5))
	require.NoError(t, err)

	resp, err := env.svc.BuscarPorBarcode(context.Background(), barcode)
	require.NoError(t, err)
	assert.Equal(t, creado.ID, resp.ID)
	assert.Equal(t, "Runner Flex", resp.Nombre)
	assert.Equal(t, "41", resp.Talla)
	assert.True(t, resp.PrecioVenta.Equal(d("120.00")))
	assert.Equal(t, 5, resp.Stock)
}

func TestBuscarPorBarcodeInexistente(t *testing.T) {
	env := newProdEnv(t)

	_, err := env.svc.BuscarPorBarcode(context.Background(), "0000000000000")
	require.Error(t, err)
	assert.Equal(t, 404, apierror.StatusFor(err))
}

func TestActualizarProducto(t *testing.T) {
	env := newProdEnv(t)

	creado, err := env.svc.Crear(context.Background(), env.crearRequest(nil, 0))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	nuevoPrecio := d("135.00")
	nuevoMinimo := 5
	resp, err := env.svc.Actualizar(context.Background(), id, dto.ActualizarProductoRequest{
		PrecioVenta: &nuevoPrecio,
		StockMinimo: &nuevoMinimo,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioVenta.Equal(nuevoPrecio))

	assert.True(t, env.prods.productos[id].PrecioVenta.Equal(nuevoPrecio))
	assert.Equal(t, 5, env.prods.productos[id].StockMinimo)
}

func TestDesactivarProductoSinVentas(t *testing.T) {
	env := newProdEnv(t)

	creado, err := env.svc.Crear(context.Background(), env.crearRequest(nil, 5))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// Never sold: the product row, its warehouse rows and its ledger go away.
	require.NoError(t, env.svc.Desactivar(context.Background(), id))
	assert.NotContains(t, env.prods.productos, id)
	assert.Equal(t, 0, env.inv.cantidad(id, env.almacen))
	assert.Empty(t, env.inv.movimientos)
}

func TestDesactivarProductoConVentas(t *testing.T) {
	env := newProdEnv(t)

	creado, err := env.svc.Crear(context.Background(), env.crearRequest(nil, 5))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)
	env.prods.vendidos[id] = true

	// Referenced by sale lines: deactivated, history stays resolvable.
	require.NoError(t, env.svc.Desactivar(context.Background(), id))
	require.Contains(t, env.prods.productos, id)
	assert.False(t, env.prods.productos[id].Activo)
	assert.Equal(t, 5, env.inv.cantidad(id, env.almacen))
}
