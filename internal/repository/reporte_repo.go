package repository

import (
	"context"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetodoPagoAgg is a GROUP BY row for the payment-method report.
type MetodoPagoAgg struct {
	MetodoPago string
	Cantidad   int64
	Total      decimal.Decimal
}

// ReporteRepository serves the read side. Heavy grouping happens in SQL when
// it maps cleanly; date bucketing and category rollups happen in the service.
type ReporteRepository interface {
	VentasCompletadasEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	DetallesEnRango(ctx context.Context, desde, hasta *time.Time) ([]model.DetalleVenta, error)
	VentasPorMetodo(ctx context.Context, desde, hasta *time.Time) ([]MetodoPagoAgg, error)
	VentasPorCliente(ctx context.Context, desde, hasta *time.Time, limit int) ([]ClienteAgg, error)
	InventarioCompleto(ctx context.Context, almacenIDs []uuid.UUID) ([]model.Inventario, error)
	ProductosSinVentaDesde(ctx context.Context, fechaLimite time.Time) ([]model.Producto, error)
	SesionesConDetalle(ctx context.Context, desde, hasta *time.Time, usuarioID, cajaID *uuid.UUID, limit int) ([]model.SesionCaja, error)
	VentasPorSesion(ctx context.Context, sesionIDs []uuid.UUID) (map[uuid.UUID][]model.Venta, error)
	MovimientosPorSesion(ctx context.Context, sesionIDs []uuid.UUID) (map[uuid.UUID][]model.MovimientoCaja, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) VentasCompletadasEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Where("fecha >= ? AND fecha <= ? AND estado = ?", desde, hasta, model.VentaCompletada).
		Find(&ventas).Error
	return ventas, err
}

func (r *reporteRepo) DetallesEnRango(ctx context.Context, desde, hasta *time.Time) ([]model.DetalleVenta, error) {
	var detalles []model.DetalleVenta
	q := r.db.WithContext(ctx).Model(&model.DetalleVenta{}).
		Joins("JOIN ventas ON ventas.id = detalles_venta.venta_id").
		Where("ventas.estado = ?", model.VentaCompletada).
		Preload("Producto.Categoria")
	if desde != nil {
		q = q.Where("ventas.fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("ventas.fecha <= ?", *hasta)
	}
	err := q.Find(&detalles).Error
	return detalles, err
}

func (r *reporteRepo) VentasPorMetodo(ctx context.Context, desde, hasta *time.Time) ([]MetodoPagoAgg, error) {
	var filas []MetodoPagoAgg
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COUNT(id) AS cantidad, COALESCE(SUM(total), 0) AS total").
		Where("estado = ?", model.VentaCompletada)
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha <= ?", *hasta)
	}
	err := q.Group("metodo_pago").Scan(&filas).Error
	return filas, err
}

type ClienteAgg struct {
	ClienteID    uuid.UUID
	Nombre       string
	Compras      int64
	Total        decimal.Decimal
	UltimaCompra time.Time
}

// VentasPorCliente ranks identified customers by completed-sale spend.
// Anonymous sales (cliente_id IS NULL) are excluded.
func (r *reporteRepo) VentasPorCliente(ctx context.Context, desde, hasta *time.Time, limit int) ([]ClienteAgg, error) {
	var filas []ClienteAgg
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("ventas.cliente_id AS cliente_id, clientes.nombre AS nombre, "+
			"COUNT(ventas.id) AS compras, COALESCE(SUM(ventas.total), 0) AS total, "+
			"MAX(ventas.fecha) AS ultima_compra").
		Joins("JOIN clientes ON clientes.id = ventas.cliente_id").
		Where("ventas.estado = ?", model.VentaCompletada)
	if desde != nil {
		q = q.Where("ventas.fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("ventas.fecha <= ?", *hasta)
	}
	err := q.Group("ventas.cliente_id, clientes.nombre").
		Order("total DESC").Limit(limit).Scan(&filas).Error
	return filas, err
}

func (r *reporteRepo) InventarioCompleto(ctx context.Context, almacenIDs []uuid.UUID) ([]model.Inventario, error) {
	var rows []model.Inventario
	q := r.db.WithContext(ctx).
		Preload("Producto.Categoria").Preload("Almacen.Sucursal")
	if len(almacenIDs) > 0 {
		q = q.Where("almacen_id IN ?", almacenIDs)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) ProductosSinVentaDesde(ctx context.Context, fechaLimite time.Time) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("stock > 0 AND activo = true").
		Where(`id NOT IN (
			SELECT DISTINCT dv.producto_id FROM detalles_venta dv
			JOIN ventas v ON v.id = dv.venta_id
			WHERE v.fecha >= ?)`, fechaLimite).
		Find(&productos).Error
	return productos, err
}

func (r *reporteRepo) SesionesConDetalle(ctx context.Context, desde, hasta *time.Time, usuarioID, cajaID *uuid.UUID, limit int) ([]model.SesionCaja, error) {
	var sesiones []model.SesionCaja
	q := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Caja.Sucursal")
	if desde != nil {
		q = q.Where("fecha_inicio >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha_inicio <= ?", *hasta)
	}
	if usuarioID != nil {
		q = q.Where("usuario_id = ?", *usuarioID)
	}
	if cajaID != nil {
		q = q.Where("caja_id = ?", *cajaID)
	}
	err := q.Order("fecha_inicio DESC").Limit(limit).Find(&sesiones).Error
	return sesiones, err
}

func (r *reporteRepo) VentasPorSesion(ctx context.Context, sesionIDs []uuid.UUID) (map[uuid.UUID][]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id IN ? AND estado = ?", sesionIDs, model.VentaCompletada).
		Find(&ventas).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]model.Venta, len(sesionIDs))
	for _, v := range ventas {
		out[v.SesionCajaID] = append(out[v.SesionCajaID], v)
	}
	return out, nil
}

func (r *reporteRepo) MovimientosPorSesion(ctx context.Context, sesionIDs []uuid.UUID) (map[uuid.UUID][]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id IN ?", sesionIDs).
		Find(&movs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]model.MovimientoCaja, len(sesionIDs))
	for _, m := range movs {
		out[m.SesionCajaID] = append(out[m.SesionCajaID], m)
	}
	return out, nil
}
