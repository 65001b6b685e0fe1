package sqlite

import (
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations from the embedded files.
func (s *Store) ApplyMigrations() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	return store.NewMigrator(m).Up()
}

// Migrator returns a migrator bound to this store's database. Closing the
// migrator also closes the store's handle.
func (s *Store) Migrator() (*store.Migrator, error) {
	m, err := s.newMigrate()
	if err != nil {
		return nil, err
	}
	return store.NewMigrator(m), nil
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, "sqlite", driver)
}
