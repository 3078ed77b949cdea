package services

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hermanar_app/internal/models"
)

// InitDB opens the SQLite database file, creating the data directory when
// missing. The pool is capped at one open connection: the store's mutex is the
// only writer coordination this single-process application has.
func InitDB(path string, logger *zap.Logger) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Info("database opened", zap.String("path", path))
	return db, nil
}

// hermanosColumns is the current shape of the hermanos table, shared by
// EnsureSchema and the surname-split migration rewrite.
const hermanosColumns = `
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	numero_hermano TEXT NOT NULL UNIQUE,
	nombre TEXT NOT NULL,
	primer_apellido TEXT NOT NULL,
	segundo_apellido TEXT,
	dni TEXT,
	fecha_nacimiento TEXT,
	localidad_nacimiento TEXT,
	provincia_nacimiento TEXT,
	fecha_alta TEXT NOT NULL,
	familia_id INTEGER,
	telefono TEXT,
	email TEXT,
	direccion TEXT,
	localidad TEXT,
	provincia TEXT,
	codigo_postal TEXT,
	parroquia_bautismo TEXT,
	localidad_bautismo TEXT,
	provincia_bautismo TEXT,
	autorizacion_menores BOOLEAN NOT NULL DEFAULT 0,
	nombre_representante_legal TEXT,
	dni_representante_legal TEXT,
	hermano_aval_1 TEXT,
	hermano_aval_2 TEXT,
	activo BOOLEAN NOT NULL DEFAULT 1,
	observaciones TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (familia_id) REFERENCES familias (id)`

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS familias (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre_familia TEXT NOT NULL UNIQUE,
		hermano_direccion_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS hermanos (` + hermanosColumns + `
	)`,
	`CREATE TABLE IF NOT EXISTS cuotas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hermano_id INTEGER NOT NULL,
		anio INTEGER NOT NULL,
		trimestre INTEGER NOT NULL CHECK(trimestre >= 1 AND trimestre <= 4),
		importe REAL NOT NULL,
		pagado BOOLEAN NOT NULL DEFAULT 0,
		fecha_pago TEXT,
		metodo_pago TEXT,
		observaciones TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (hermano_id) REFERENCES hermanos (id) ON DELETE CASCADE,
		UNIQUE(hermano_id, anio, trimestre)
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_hermanos_activo ON hermanos(activo)`,
	`CREATE INDEX IF NOT EXISTS idx_hermanos_familia ON hermanos(familia_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cuotas_hermano ON cuotas(hermano_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cuotas_anio ON cuotas(anio)`,
	`CREATE INDEX IF NOT EXISTS idx_cuotas_pagado ON cuotas(pagado)`,
}

// EnsureSchema creates the three core tables and their five indexes when
// absent. Safe to run on every start.
func EnsureSchema(db *gorm.DB) error {
	for _, stmt := range append(append([]string{}, schemaStatements...), indexStatements...) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

// AutoMigrateScheduler creates the scheduled-task tables used by the worker.
func AutoMigrateScheduler(db *gorm.DB) error {
	return db.AutoMigrate(&models.ScheduledTask{}, &models.ScheduledTaskHistory{})
}

// migration is one forward schema step. needed probes the live structure so a
// step only ever runs once; apply performs the rewrite inside a transaction.
type migration struct {
	name   string
	needed func(db *gorm.DB) (bool, error)
	apply  func(db *gorm.DB) error
}

var migrations = []migration{
	{
		name:   "split legacy apellidos column",
		needed: hasLegacySurnameColumn,
		apply:  splitSurnameColumn,
	},
}

// Migrate applies pending schema migrations in order. Runs after EnsureSchema
// and before any repository use; a fully migrated database is a no-op.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	for _, m := range migrations {
		pending, err := m.needed(db)
		if err != nil {
			return fmt.Errorf("migration %q precondition: %w", m.name, err)
		}
		if !pending {
			continue
		}
		logger.Info("applying migration", zap.String("name", m.name))
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %q: %w", m.name, err)
		}
	}
	return nil
}

func hasLegacySurnameColumn(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Raw(
		`SELECT COUNT(*) FROM pragma_table_info('hermanos') WHERE name = 'apellidos'`,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// splitSurnameColumn rewrites hermanos from the legacy single apellidos field
// into primer_apellido / segundo_apellido: text before the first space becomes
// the primary surname, text after it the secondary one (NULL when no space).
func splitSurnameColumn(db *gorm.DB) error {
	// Enforcement must be off for the rewrite: dropping hermanos with foreign
	// keys on runs an implicit DELETE that would cascade into cuotas.
	if err := db.Exec(`PRAGMA foreign_keys = OFF`).Error; err != nil {
		return err
	}
	defer db.Exec(`PRAGMA foreign_keys = ON`)

	return db.Transaction(func(tx *gorm.DB) error {
		stmts := []string{
			`CREATE TABLE hermanos_new (` + hermanosColumns + `
			)`,
			`INSERT INTO hermanos_new (
				id, numero_hermano, nombre, primer_apellido, segundo_apellido,
				dni, fecha_nacimiento, fecha_alta, familia_id, telefono, email,
				direccion, activo, observaciones, created_at, updated_at)
			SELECT
				id, numero_hermano, nombre,
				CASE WHEN instr(apellidos, ' ') > 0
					THEN substr(apellidos, 1, instr(apellidos, ' ') - 1)
					ELSE apellidos END,
				CASE WHEN instr(apellidos, ' ') > 0
					THEN substr(apellidos, instr(apellidos, ' ') + 1)
					ELSE NULL END,
				dni, fecha_nacimiento, fecha_alta, familia_id, telefono, email,
				direccion, activo, observaciones, created_at, updated_at
			FROM hermanos`,
			`DROP TABLE hermanos`,
			`ALTER TABLE hermanos_new RENAME TO hermanos`,
			`CREATE INDEX IF NOT EXISTS idx_hermanos_activo ON hermanos(activo)`,
			`CREATE INDEX IF NOT EXISTS idx_hermanos_familia ON hermanos(familia_id)`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
