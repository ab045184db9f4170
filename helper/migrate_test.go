package helper

import (
	"testing"

	"escaperoom/config"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Username = "app"
	cfg.DB.Postgres.Write.Password = "pw"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "escaperoom"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	assert.Equal(t, "postgres://app:pw@db:5432/test_escaperoom?sslmode=disable", migrationURL(cfg))

	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	assert.Equal(t, "postgres://app:pw@db:5432/test_escaperoom?sslmode=disable&x-migrations-table=schema_migrations", migrationURL(cfg))
}

func TestRunner_UnknownAction(t *testing.T) {
	err := Runner(&config.Config{}, "sideways")

	assert.ErrorIs(t, err, errUnknownAction)
}
