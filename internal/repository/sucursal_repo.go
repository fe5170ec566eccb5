package repository

import (
	"context"

	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SucursalRepository covers branches and their warehouses; both are small
// catalogs managed together from the admin screens.
type SucursalRepository interface {
	Create(ctx context.Context, s *model.Sucursal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	List(ctx context.Context) ([]model.Sucursal, error)
	Update(ctx context.Context, s *model.Sucursal) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	CreateAlmacen(ctx context.Context, a *model.Almacen) error
	FindAlmacenByID(ctx context.Context, id uuid.UUID) (*model.Almacen, error)
	ListAlmacenes(ctx context.Context, sucursalID *uuid.UUID) ([]model.Almacen, error)
	UpdateAlmacen(ctx context.Context, a *model.Almacen) error
	AlmacenIDsPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]uuid.UUID, error)
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) Create(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *sucursalRepo) List(ctx context.Context) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&sucursales).Error
	return sucursales, err
}

func (r *sucursalRepo) Update(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sucursalRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sucursal{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *sucursalRepo) CreateAlmacen(ctx context.Context, a *model.Almacen) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *sucursalRepo) FindAlmacenByID(ctx context.Context, id uuid.UUID) (*model.Almacen, error) {
	var a model.Almacen
	err := r.db.WithContext(ctx).Preload("Sucursal").First(&a, id).Error
	return &a, err
}

func (r *sucursalRepo) ListAlmacenes(ctx context.Context, sucursalID *uuid.UUID) ([]model.Almacen, error) {
	var almacenes []model.Almacen
	q := r.db.WithContext(ctx).Preload("Sucursal")
	if sucursalID != nil {
		q = q.Where("sucursal_id = ?", *sucursalID)
	}
	err := q.Order("nombre ASC").Find(&almacenes).Error
	return almacenes, err
}

func (r *sucursalRepo) UpdateAlmacen(ctx context.Context, a *model.Almacen) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *sucursalRepo) AlmacenIDsPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Almacen{}).
		Where("sucursal_id = ?", sucursalID).Pluck("id", &ids).Error
	return ids, err
}
