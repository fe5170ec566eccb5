package infra

import (
	"fmt"

	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express on its own (partial unique indexes, composite indexes with
// WHERE clauses).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// gen_random_uuid() lives in pgcrypto on Postgres < 13; harmless on newer.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies AutoMigrate plus the manual schema patches. Exposed
// separately so integration tests can prepare a container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.Almacen{},
		&model.Usuario{},
		&model.Categoria{},
		&model.Cliente{},
		&model.Producto{},
		&model.Inventario{},
		&model.MovimientoInventario{},
		&model.Caja{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.DocumentoSecuencia{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// schemaPatches is idempotent DDL that AutoMigrate cannot produce. Each
// statement uses IF NOT EXISTS semantics so re-running on an already patched
// database is a no-op. Column names must match what AutoMigrate derives from
// the models or migration fails on boot.
var schemaPatches = []struct{ descr, sql string }{
	// A caja may have at most one open session at a time. The row lock on
	// cajas already serializes openings; this index is the hard guarantee.
	{"partial unique index on open sessions",
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_sesiones_caja_abierta
		     ON sesiones_caja (caja_id)
		     WHERE estado = 'ABIERTA'`},
	// One inventory row per (producto, almacen); UpsertTx relies on it.
	{"unique index inventario producto+almacen",
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_inventarios_producto_almacen
		     ON inventarios (producto_id, almacen_id)`},
	// Kardex queries always filter by product and order by date.
	{"kardex lookup index",
		`CREATE INDEX IF NOT EXISTS idx_mov_inventario_producto_fecha
		     ON movimientos_inventario (producto_id, created_at DESC)`},
	// Session close sums cash movements without a venta_id.
	{"manual cash movement index",
		`CREATE INDEX IF NOT EXISTS idx_mov_caja_sesion_manual
		     ON movimientos_caja (sesion_caja_id)
		     WHERE venta_id IS NULL`},
	// Sales reports filter completed sales by date range.
	{"sales by date index",
		`CREATE INDEX IF NOT EXISTS idx_ventas_fecha_estado
		     ON ventas (fecha, estado)`},
}

func applySchemaPatches(db *gorm.DB) error {
	for _, p := range schemaPatches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
