package migrations

import (
	"gorm.io/gorm"

	"github.com/esc-directory/consultants/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.Consultant{},
	}
}

// Run executes all database migrations. It is safe to run repeatedly.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addRegionsIndex,
		requireRegions,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// addRegionsIndex backs the jsonb containment filter on regions.
func addRegionsIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_consultants_regions
		ON consultants USING GIN (regions jsonb_path_ops)
	`).Error
}

// requireRegions rejects rows whose regions are not a non-empty JSON array.
func requireRegions(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'chk_consultants_regions_nonempty'
			) THEN
				ALTER TABLE consultants ADD CONSTRAINT chk_consultants_regions_nonempty
				CHECK (CASE WHEN jsonb_typeof(regions) = 'array' THEN jsonb_array_length(regions) > 0 ELSE false END);
			END IF;
		END
		$$
	`).Error
}
