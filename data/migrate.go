package data

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Pjt727/classboard/internal/projectpath"
)

func migrationsURL() string {
	return "file://" + projectpath.Root + "/migrations"
}

// MigrateUp applies every pending up migration, already being current is fine
func MigrateUp(connString string) error {
	m, err := migrate.New(migrationsURL(), connString)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// ResetTestDb drops and recreates the schema on TEST_DB_CONN
func ResetTestDb() (string, error) {
	testDb := os.Getenv("TEST_DB_CONN")
	if testDb == "" {
		return "", errors.New("TEST_DB_CONN is not set")
	}
	m, err := migrate.New(migrationsURL(), testDb)
	if err != nil {
		return "", err
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return "", err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return "", err
	}
	return testDb, nil
}
