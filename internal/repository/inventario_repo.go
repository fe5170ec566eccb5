package repository

import (
	"context"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository manages per-warehouse stock rows and the kardex.
// Mutations run inside caller-provided transactions; queries use the pool.
type InventarioRepository interface {
	FindByProductoAlmacen(ctx context.Context, productoID, almacenID uuid.UUID) (*model.Inventario, error)
	FindByProductoAlmacenTx(tx *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error)
	List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Inventario, error)
	SumCantidadTx(tx *gorm.DB, productoID uuid.UUID) (int, error)

	// UpsertTx creates the (producto, almacen) row or sets its quantity.
	UpsertTx(tx *gorm.DB, inv *model.Inventario) error
	// DescontarTx decrements conditionally; returns gorm.ErrRecordNotFound
	// semantics via rows affected when stock would go negative.
	DescontarTx(tx *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) (bool, error)
	IncrementarTx(tx *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) error

	// EliminarPorProductoTx wipes a product's warehouse rows and its ledger.
	// Only called when the product is hard-deleted, never on deactivation.
	EliminarPorProductoTx(tx *gorm.DB, productoID uuid.UUID) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error
	ListMovimientos(ctx context.Context, filter dto.MovimientoInvFilter) ([]model.MovimientoInventario, int64, error)
	ListMovimientosProducto(ctx context.Context, productoID uuid.UUID, desde, hasta *time.Time) ([]model.MovimientoInventario, error)

	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) FindByProductoAlmacen(ctx context.Context, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND almacen_id = ?", productoID, almacenID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) FindByProductoAlmacenTx(tx *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND almacen_id = ?", productoID, almacenID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var rows []model.Inventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Joins("JOIN productos ON productos.id = inventarios.producto_id").
		Preload("Producto").Preload("Almacen.Sucursal")

	if filter.AlmacenID != "" {
		q = q.Where("inventarios.almacen_id = ?", filter.AlmacenID)
	}
	if filter.SucursalID != "" {
		q = q.Where("inventarios.almacen_id IN (SELECT id FROM almacenes WHERE sucursal_id = ?)", filter.SucursalID)
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("productos.nombre ILIKE ? OR productos.codigo_barras = ?", like, filter.Buscar)
	}
	if filter.StockBajo {
		q = q.Where("inventarios.cantidad <= productos.stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("productos.nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *inventarioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Inventario, error) {
	var rows []model.Inventario
	err := r.db.WithContext(ctx).Preload("Almacen.Sucursal").
		Where("producto_id = ?", productoID).Find(&rows).Error
	return rows, err
}

func (r *inventarioRepo) SumCantidadTx(tx *gorm.DB, productoID uuid.UUID) (int, error) {
	var total int
	err := tx.Model(&model.Inventario{}).
		Where("producto_id = ?", productoID).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&total).Error
	return total, err
}

func (r *inventarioRepo) UpsertTx(tx *gorm.DB, inv *model.Inventario) error {
	// Location only travels when the caller set it; other upserts must not
	// clobber a previously stored ubicacion.
	cols := []string{"cantidad", "updated_at"}
	if inv.UbicacionFisica != "" {
		cols = append(cols, "ubicacion_fisica")
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "producto_id"}, {Name: "almacen_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(inv).Error
}

func (r *inventarioRepo) DescontarTx(tx *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) (bool, error) {
	res := tx.Model(&model.Inventario{}).
		Where("producto_id = ? AND almacen_id = ? AND cantidad >= ?", productoID, almacenID, cantidad).
		Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventarioRepo) IncrementarTx(tx *gorm.DB, productoID, almacenID uuid.UUID, cantidad int) error {
	res := tx.Model(&model.Inventario{}).
		Where("producto_id = ? AND almacen_id = ?", productoID, almacenID).
		Update("cantidad", gorm.Expr("cantidad + ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		inv := &model.Inventario{ProductoID: productoID, AlmacenID: almacenID, Cantidad: cantidad}
		return tx.Create(inv).Error
	}
	return nil
}

func (r *inventarioRepo) EliminarPorProductoTx(tx *gorm.DB, productoID uuid.UUID) error {
	if err := tx.Where("producto_id = ?", productoID).
		Delete(&model.MovimientoInventario{}).Error; err != nil {
		return err
	}
	return tx.Where("producto_id = ?", productoID).
		Delete(&model.Inventario{}).Error
}

func (r *inventarioRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *inventarioRepo) ListMovimientos(ctx context.Context, filter dto.MovimientoInvFilter) ([]model.MovimientoInventario, int64, error) {
	var movs []model.MovimientoInventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Preload("Producto").Preload("Almacen")

	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.AlmacenID != "" {
		q = q.Where("almacen_id = ?", filter.AlmacenID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&movs).Error
	return movs, total, err
}

func (r *inventarioRepo) ListMovimientosProducto(ctx context.Context, productoID uuid.UUID, desde, hasta *time.Time) ([]model.MovimientoInventario, error) {
	var movs []model.MovimientoInventario
	q := r.db.WithContext(ctx).Preload("Almacen.Sucursal").Preload("Usuario").
		Where("producto_id = ?", productoID)
	if desde != nil {
		q = q.Where("created_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("created_at <= ?", *hasta)
	}
	err := q.Order("created_at DESC").Find(&movs).Error
	return movs, err
}

func (r *inventarioRepo) DB() *gorm.DB { return r.db }
