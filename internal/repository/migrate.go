package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the repositories use. On
// Postgres it also installs the exclusion constraint that backstops
// overlap detection (see isOverlapConstraintViolation).
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userModel{},
		&tipoRecursoModel{},
		&recursoModel{},
		&reservaModel{},
		&historialModel{},
		&notificacionModel{},
	)
	if err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return installOverlapConstraint(db)
	}
	return nil
}

func installOverlapConstraint(db *gorm.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE reservas DROP CONSTRAINT IF EXISTS idx_no_traslape`,
		`ALTER TABLE reservas ADD CONSTRAINT idx_no_traslape
			EXCLUDE USING gist (recurso_id WITH =, tsrange(fecha_inicio, fecha_fin, '[)') WITH &&)
			WHERE (estado = 'activa')`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
