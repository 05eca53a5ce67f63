package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"conroom/config"
	"conroom/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"

	migrationSource = "file://migrations/postgres"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString targets the write database and carries the migration
// table name as a query parameter understood by golang-migrate.
func ConnectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	dsn := postgres.DSN(write.Username, write.Password, write.Host, write.Port, postgres.DBName(config, write.Name), write.SSLMode)
	if table := config.DB.Postgres.MigrationTable; table != "" {
		dsn += "&x-migrations-table=" + table
	}

	return dsn
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	var run func(mig *migrate.Migrate) error

	switch action {
	case ActionUp:
		run = func(mig *migrate.Migrate) error { return mig.Up() }
	case ActionDown:
		run = func(mig *migrate.Migrate) error { return mig.Steps(-1) }
	case ActionStepUp:
		run = func(mig *migrate.Migrate) error { return mig.Steps(1) }
	case ActionDrop:
		run = func(mig *migrate.Migrate) error { return mig.Down() }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration completed successfully")

	return nil
}
