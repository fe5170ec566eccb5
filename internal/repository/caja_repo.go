package repository

import (
	"context"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository covers registers, their sessions and the cash ledger.
// Open/close run under row locks taken with FindByIDForUpdate.
type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Caja, error)
	List(ctx context.Context, sucursalID *uuid.UUID) ([]model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
	UpdateTx(tx *gorm.DB, c *model.Caja) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSesiones(ctx context.Context, cajaID uuid.UUID) (int64, error)
	AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionAbierta(ctx context.Context, cajaID uuid.UUID) (*model.SesionCaja, error)
	FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error)
	UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error
	ListSesiones(ctx context.Context, filter dto.SesionFilter) ([]model.SesionCaja, int64, error)

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)
	ListMovimientosCaja(ctx context.Context, filter dto.MovimientoCajaFilter) ([]model.MovimientoCaja, int64, error)
	// SumMovimientosManuales returns (ingresos, retiros) excluding rows tied
	// to a venta; those are accounted through the ventas table instead.
	SumMovimientosManuales(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
	SumMovimientosManualesTx(tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Sucursal").First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, sucursalID *uuid.UUID) ([]model.Caja, error) {
	var cajas []model.Caja
	q := r.db.WithContext(ctx).Preload("Sucursal")
	if sucursalID != nil {
		q = q.Where("sucursal_id = ?", *sucursalID)
	}
	err := q.Order("codigo ASC").Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cajaRepo) UpdateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Save(c).Error
}

func (r *cajaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Caja{}, id).Error
}

func (r *cajaRepo) CountSesiones(ctx context.Context, cajaID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("caja_id = ?", cajaID).Count(&total).Error
	return total, err
}

func (r *cajaRepo) AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Caja{}).Where("id = ?", id).
		Update("saldo_actual", gorm.Expr("saldo_actual + ?", delta)).Error
}

func (r *cajaRepo) CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Create(s).Error
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Caja").Preload("Usuario").First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context, cajaID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Usuario").
		Where("caja_id = ? AND estado = ?", cajaID, model.SesionAbierta).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Caja").
		Where("usuario_id = ? AND estado = ?", usuarioID, model.SesionAbierta).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Save(s).Error
}

func (r *cajaRepo) ListSesiones(ctx context.Context, filter dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Preload("Caja.Sucursal").Preload("Usuario")

	if filter.CajaID != "" {
		q = q.Where("caja_id = ?", filter.CajaID)
	}
	if filter.UsuarioID != "" {
		q = q.Where("usuario_id = ?", filter.UsuarioID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("fecha_inicio >= ?", t)
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("fecha_inicio < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha_inicio DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&sesiones).Error
	return sesiones, total, err
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) ListMovimientosCaja(ctx context.Context, filter dto.MovimientoCajaFilter) ([]model.MovimientoCaja, int64, error) {
	var movs []model.MovimientoCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).Preload("Usuario")

	if filter.CajaID != "" {
		q = q.Joins("JOIN sesiones_caja ON sesiones_caja.id = movimientos_caja.sesion_caja_id").
			Where("sesiones_caja.caja_id = ?", filter.CajaID)
	}
	if filter.SesionID != "" {
		q = q.Where("movimientos_caja.sesion_caja_id = ?", filter.SesionID)
	}
	if filter.UsuarioID != "" {
		q = q.Where("movimientos_caja.usuario_id = ?", filter.UsuarioID)
	}
	if filter.Tipo != "" {
		q = q.Where("movimientos_caja.tipo = ?", filter.Tipo)
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("movimientos_caja.fecha >= ?", t)
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("movimientos_caja.fecha < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("movimientos_caja.fecha DESC").
		Limit(filter.Limit).Offset(filter.Offset()).Find(&movs).Error
	return movs, total, err
}

func (r *cajaRepo) SumMovimientosManuales(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	return r.sumManuales(r.db.WithContext(ctx), sesionID)
}

func (r *cajaRepo) SumMovimientosManualesTx(tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	return r.sumManuales(tx, sesionID)
}

func (r *cajaRepo) sumManuales(db *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	type fila struct {
		Tipo  string
		Total decimal.Decimal
	}
	var filas []fila
	err := db.Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND venta_id IS NULL AND tipo IN ?", sesionID,
			[]model.TipoMovimientoCaja{model.MovCajaIngreso, model.MovCajaRetiro}).
		Group("tipo").Scan(&filas).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, retiros := decimal.Zero, decimal.Zero
	for _, f := range filas {
		switch model.TipoMovimientoCaja(f.Tipo) {
		case model.MovCajaIngreso:
			ingresos = f.Total
		case model.MovCajaRetiro:
			retiros = f.Total
		}
	}
	return ingresos, retiros, nil
}

func (r *cajaRepo) DB() *gorm.DB { return r.db }
