package tests

// In-memory repository fakes shared by the unit suites. Every fake asserts
// the full repository interface at compile time; lookups that miss return
// gorm.ErrRecordNotFound so services take the same branch as against Postgres.

import (
	"context"
	"fmt"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── CajaRepository ───────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	cajas       map[uuid.UUID]*model.Caja
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{
		cajas:    make(map[uuid.UUID]*model.Caja),
		sesiones: make(map[uuid.UUID]*model.SesionCaja),
	}
}

func (r *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = c
	return nil
}

func (r *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCajaRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCajaRepo) List(_ context.Context, sucursalID *uuid.UUID) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range r.cajas {
		if sucursalID != nil && c.SucursalID != *sucursalID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCajaRepo) Update(_ context.Context, c *model.Caja) error {
	r.cajas[c.ID] = c
	return nil
}

func (r *fakeCajaRepo) UpdateTx(_ *gorm.DB, c *model.Caja) error {
	r.cajas[c.ID] = c
	return nil
}

func (r *fakeCajaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cajas, id)
	return nil
}

func (r *fakeCajaRepo) CountSesiones(_ context.Context, cajaID uuid.UUID) (int64, error) {
	var total int64
	for _, s := range r.sesiones {
		if s.CajaID == cajaID {
			total++
		}
	}
	return total, nil
}

func (r *fakeCajaRepo) AjustarSaldoTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.cajas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.SaldoActual = c.SaldoActual.Add(delta)
	return nil
}

func (r *fakeCajaRepo) CreateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context, cajaID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.CajaID == cajaID && s.Estado == model.SesionAbierta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) FindSesionAbiertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.UsuarioID == usuarioID && s.Estado == model.SesionAbierta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) UpdateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, _ dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) ListMovimientosCaja(_ context.Context, filter dto.MovimientoCajaFilter) ([]model.MovimientoCaja, int64, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if filter.SesionID != "" && m.SesionCajaID.String() != filter.SesionID {
			continue
		}
		if filter.Tipo != "" && string(m.Tipo) != filter.Tipo {
			continue
		}
		if filter.CajaID != "" {
			s, ok := r.sesiones[m.SesionCajaID]
			if !ok || s.CajaID.String() != filter.CajaID {
				continue
			}
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCajaRepo) sumManuales(sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	ingresos, retiros := decimal.Zero, decimal.Zero
	for _, m := range r.movimientos {
		if m.SesionCajaID != sesionID || m.VentaID != nil {
			continue
		}
		switch m.Tipo {
		case model.MovCajaIngreso:
			ingresos = ingresos.Add(m.Monto)
		case model.MovCajaRetiro:
			retiros = retiros.Add(m.Monto)
		}
	}
	return ingresos, retiros
}

func (r *fakeCajaRepo) SumMovimientosManuales(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	i, ret := r.sumManuales(sesionID)
	return i, ret, nil
}

func (r *fakeCajaRepo) SumMovimientosManualesTx(_ *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	i, ret := r.sumManuales(sesionID)
	return i, ret, nil
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

// ── VentaRepository ──────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	ventas     map[uuid.UUID]*model.Venta
	secuencias map[model.TipoDocumento]int64
}

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{
		ventas:     make(map[uuid.UUID]*model.Venta),
		secuencias: make(map[model.TipoDocumento]int64),
	}
}

func (r *fakeVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVentaRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *fakeVentaRepo) SiguienteNumeroTx(_ *gorm.DB, tipo model.TipoDocumento) (string, error) {
	r.secuencias[tipo]++
	return fmt.Sprintf("%s-%08d", tipo, r.secuencias[tipo]), nil
}

func (r *fakeVentaRepo) sumEfectivo(sesionID uuid.UUID) (decimal.Decimal, int64) {
	total, count := decimal.Zero, int64(0)
	for _, v := range r.ventas {
		if v.SesionCajaID == sesionID && v.Estado == model.VentaCompletada && v.MetodoPago.EsEfectivo() {
			total = total.Add(v.Total)
			count++
		}
	}
	return total, count
}

func (r *fakeVentaRepo) SumVentasEfectivoSesion(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, int64, error) {
	total, count := r.sumEfectivo(sesionID)
	return total, count, nil
}

func (r *fakeVentaRepo) SumVentasEfectivoSesionTx(_ *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, int64, error) {
	total, count := r.sumEfectivo(sesionID)
	return total, count, nil
}

func (r *fakeVentaRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SesionCajaID == sesionID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

// ── InventarioRepository ─────────────────────────────────────────────────────

type invKey struct {
	producto uuid.UUID
	almacen  uuid.UUID
}

type fakeInventarioRepo struct {
	filas       map[invKey]*model.Inventario
	movimientos []model.MovimientoInventario
}

var _ repository.InventarioRepository = (*fakeInventarioRepo)(nil)

func newFakeInventarioRepo() *fakeInventarioRepo {
	return &fakeInventarioRepo{filas: make(map[invKey]*model.Inventario)}
}

func (r *fakeInventarioRepo) seed(productoID, almacenID uuid.UUID, cantidad int) {
	r.filas[invKey{productoID, almacenID}] = &model.Inventario{
		ID:         uuid.New(),
		ProductoID: productoID,
		AlmacenID:  almacenID,
		Cantidad:   cantidad,
	}
}

func (r *fakeInventarioRepo) cantidad(productoID, almacenID uuid.UUID) int {
	if inv, ok := r.filas[invKey{productoID, almacenID}]; ok {
		return inv.Cantidad
	}
	return 0
}

func (r *fakeInventarioRepo) FindByProductoAlmacen(_ context.Context, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.filas[invKey{productoID, almacenID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *fakeInventarioRepo) FindByProductoAlmacenTx(_ *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.filas[invKey{productoID, almacenID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *fakeInventarioRepo) List(_ context.Context, _ dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var out []model.Inventario
	for _, inv := range r.filas {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInventarioRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Inventario, error) {
	var out []model.Inventario
	for _, inv := range r.filas {
		if inv.ProductoID == productoID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInventarioRepo) SumCantidadTx(_ *gorm.DB, productoID uuid.UUID) (int, error) {
	total := 0
	for _, inv := range r.filas {
		if inv.ProductoID == productoID {
			total += inv.Cantidad
		}
	}
	return total, nil
}

func (r *fakeInventarioRepo) UpsertTx(_ *gorm.DB, inv *model.Inventario) error {
	key := invKey{inv.ProductoID, inv.AlmacenID}
	if existente, ok := r.filas[key]; ok {
		existente.Cantidad = inv.Cantidad
		if inv.UbicacionFisica != "" {
			existente.UbicacionFisica = inv.UbicacionFisica
		}
		return nil
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	r.filas[key] = &cp
	return nil
}

func (r *fakeInventarioRepo) DescontarTx(_ *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) (bool, error) {
	inv, ok := r.filas[invKey{productoID, almacenID}]
	if !ok || inv.Cantidad < cantidad {
		return false, nil
	}
	inv.Cantidad -= cantidad
	return true, nil
}

func (r *fakeInventarioRepo) IncrementarTx(_ *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) error {
	key := invKey{productoID, almacenID}
	if inv, ok := r.filas[key]; ok {
		inv.Cantidad += cantidad
		return nil
	}
	r.filas[key] = &model.Inventario{
		ID:         uuid.New(),
		ProductoID: productoID,
		AlmacenID:  almacenID,
		Cantidad:   cantidad,
	}
	return nil
}

func (r *fakeInventarioRepo) EliminarPorProductoTx(_ *gorm.DB, productoID uuid.UUID) error {
	for k := range r.filas {
		if k.producto == productoID {
			delete(r.filas, k)
		}
	}
	kept := r.movimientos[:0]
	for _, m := range r.movimientos {
		if m.ProductoID != productoID {
			kept = append(kept, m)
		}
	}
	r.movimientos = kept
	return nil
}

func (r *fakeInventarioRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeInventarioRepo) ListMovimientos(_ context.Context, _ dto.MovimientoInvFilter) ([]model.MovimientoInventario, int64, error) {
	out := append([]model.MovimientoInventario(nil), r.movimientos...)
	return out, int64(len(out)), nil
}

func (r *fakeInventarioRepo) ListMovimientosProducto(_ context.Context, productoID uuid.UUID, _, _ *time.Time) ([]model.MovimientoInventario, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeInventarioRepo) DB() *gorm.DB { return nil }

// ── ProductoRepository ───────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	vendidos  map[uuid.UUID]bool
}

var _ repository.ProductoRepository = (*fakeProductoRepo)(nil)

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		vendidos:  make(map[uuid.UUID]bool),
	}
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	return r.Create(context.Background(), p)
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) FindVariante(_ context.Context, nombre, talla, color string, almacenID uuid.UUID) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Nombre == nombre && p.Talla == talla && p.Color == color && p.AlmacenID == almacenID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.ControlarStock && p.Stock <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *fakeProductoRepo) TieneVentas(_ context.Context, id uuid.UUID) (bool, error) {
	return r.vendidos[id], nil
}

func (r *fakeProductoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *fakeProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *fakeProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

// ── SucursalRepository ───────────────────────────────────────────────────────

type fakeSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
	almacenes  map[uuid.UUID]*model.Almacen
}

var _ repository.SucursalRepository = (*fakeSucursalRepo)(nil)

func newFakeSucursalRepo() *fakeSucursalRepo {
	return &fakeSucursalRepo{
		sucursales: make(map[uuid.UUID]*model.Sucursal),
		almacenes:  make(map[uuid.UUID]*model.Almacen),
	}
}

func (r *fakeSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sucursales[s.ID] = s
	return nil
}

func (r *fakeSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSucursalRepo) List(_ context.Context) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	r.sucursales[s.ID] = s
	return nil
}

func (r *fakeSucursalRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	s, ok := r.sucursales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Activo = false
	return nil
}

func (r *fakeSucursalRepo) CreateAlmacen(_ context.Context, a *model.Almacen) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.almacenes[a.ID] = a
	return nil
}

func (r *fakeSucursalRepo) FindAlmacenByID(_ context.Context, id uuid.UUID) (*model.Almacen, error) {
	a, ok := r.almacenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeSucursalRepo) ListAlmacenes(_ context.Context, sucursalID *uuid.UUID) ([]model.Almacen, error) {
	var out []model.Almacen
	for _, a := range r.almacenes {
		if sucursalID != nil && a.SucursalID != *sucursalID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeSucursalRepo) UpdateAlmacen(_ context.Context, a *model.Almacen) error {
	r.almacenes[a.ID] = a
	return nil
}

func (r *fakeSucursalRepo) AlmacenIDsPorSucursal(_ context.Context, sucursalID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, a := range r.almacenes {
		if a.SucursalID == sucursalID {
			out = append(out, a.ID)
		}
	}
	return out, nil
}

// ── CategoriaRepository ──────────────────────────────────────────────────────

type fakeCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

var _ repository.CategoriaRepository = (*fakeCategoriaRepo)(nil)

func newFakeCategoriaRepo() *fakeCategoriaRepo {
	return &fakeCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *fakeCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *fakeCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCategoriaRepo) FindByNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if c.Nombre == nombre {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoriaRepo) Update(_ context.Context, c *model.Categoria) error {
	r.categorias[c.ID] = c
	return nil
}

func (r *fakeCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	c, ok := r.categorias[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

// ── ClienteRepository ────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

// ── UsuarioRepository ────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}
