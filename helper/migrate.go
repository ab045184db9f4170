package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"escaperoom/config"
	"escaperoom/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var errUnknownAction = errors.New("unknown migration action")

// migrationURL points golang-migrate at the write database and its bookkeeping table.
func migrationURL(config *config.Config) string {
	dsn := postgres.InstanceDSN(config, config.DB.Postgres.Write)

	if config.DB.Postgres.MigrationTable == "" {
		return dsn
	}

	return fmt.Sprintf("%s&x-migrations-table=%s", dsn, config.DB.Postgres.MigrationTable)
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationSource, migrationURL(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	var run func(*migrate.Migrate) error

	switch action {
	case ActionUp:
		run = func(m *migrate.Migrate) error { return m.Up() }
	case ActionDown:
		run = func(m *migrate.Migrate) error { return m.Steps(-1) }
	case ActionStepUp:
		run = func(m *migrate.Migrate) error { return m.Steps(1) }
	case ActionDrop:
		run = func(m *migrate.Migrate) error { return m.Down() }
	default:
		return fmt.Errorf("%w: %s", errUnknownAction, action)
	}

	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
