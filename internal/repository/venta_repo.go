package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error

	// SiguienteNumeroTx increments the per-type sequence and returns the
	// formatted document number, e.g. "BOLETA-00000042".
	SiguienteNumeroTx(tx *gorm.DB, tipo model.TipoDocumento) (string, error)

	// SumVentasEfectivoSesion totals cash-bearing completed sales of a session.
	SumVentasEfectivoSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, int64, error)
	SumVentasEfectivoSesionTx(tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, int64, error)
	ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").Preload("Usuario").Preload("Cliente").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detalles").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Preload("Detalles.Producto").Preload("Usuario").Preload("Cliente")

	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.CajaID != "" {
		q = q.Where("caja_id = ?", filter.CajaID)
	}
	if filter.UsuarioID != "" {
		q = q.Where("usuario_id = ?", filter.UsuarioID)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("fecha >= ?", t)
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("fecha < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) SiguienteNumeroTx(tx *gorm.DB, tipo model.TipoDocumento) (string, error) {
	// Upsert keeps the row locked until commit, serializing numbers per type.
	seq := model.DocumentoSecuencia{Tipo: tipo, UltimoNumero: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tipo"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"ultimo_numero": gorm.Expr("documento_secuencias.ultimo_numero + 1")}),
	}).Create(&seq).Error
	if err != nil {
		return "", err
	}
	var ultimo int64
	if err := tx.Model(&model.DocumentoSecuencia{}).
		Where("tipo = ?", tipo).Pluck("ultimo_numero", &ultimo).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%08d", tipo, ultimo), nil
}

func (r *ventaRepo) SumVentasEfectivoSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, int64, error) {
	return r.sumEfectivo(r.db.WithContext(ctx), sesionID)
}

func (r *ventaRepo) SumVentasEfectivoSesionTx(tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, int64, error) {
	return r.sumEfectivo(tx, sesionID)
}

func (r *ventaRepo) sumEfectivo(db *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, int64, error) {
	var total decimal.Decimal
	err := db.Model(&model.Venta{}).
		Where("sesion_caja_id = ? AND estado = ? AND metodo_pago IN ?", sesionID,
			model.VentaCompletada, []model.MetodoPago{model.PagoEfectivo, model.PagoMixto}).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	var count int64
	err = db.Model(&model.Venta{}).
		Where("sesion_caja_id = ? AND estado = ?", sesionID, model.VentaCompletada).
		Count(&count).Error
	return total, count, err
}

func (r *ventaRepo) ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
