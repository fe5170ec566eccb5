package repository

import (
	"context"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory fakes.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	// FindVariante locates the twin product in another branch/warehouse by the
	// natural key (nombre, talla, color). Used by stock transfers.
	FindVariante(ctx context.Context, nombre, talla, color string, almacenID uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListStockBajo(ctx context.Context) ([]model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// TieneVentas reports whether any sale line references the product.
	TieneVentas(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND activo = true", barcode).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindVariante(ctx context.Context, nombre, talla, color string, almacenID uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("nombre = ? AND talla = ? AND color = ? AND almacen_id = ?", nombre, talla, color, almacenID).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Preload("Categoria")

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("nombre ILIKE ? OR codigo_barras = ? OR codigo_interno = ?", like, filter.Buscar, filter.Buscar)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Talla != "" {
		q = q.Where("talla = ?", filter.Talla)
	}
	if filter.Color != "" {
		q = q.Where("color ILIKE ?", filter.Color)
	}
	if filter.StockBajo {
		q = q.Where("controlar_stock = true AND stock <= stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND controlar_stock = true AND stock <= stock_minimo").
		Order("stock ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("activo = true").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) TieneVentas(ctx context.Context, id uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.DetalleVenta{}).
		Where("producto_id = ?", id).Count(&total).Error
	return total > 0, err
}

func (r *productoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Producto{}, id).Error
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
