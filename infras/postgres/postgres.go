package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"time"

	"conroom/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

// Connection splits reads and writes across two pools.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	name     string
	host     string
	port     string
	username string
	password string
	dbName   string
	sslMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read: connect(endpoint{
			name: "read", host: pg.Read.Host, port: pg.Read.Port,
			username: pg.Read.Username, password: pg.Read.Password,
			dbName: DBName(config, pg.Read.Name), sslMode: pg.Read.SSLMode,
		}, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(endpoint{
			name: "write", host: pg.Write.Host, port: pg.Write.Port,
			username: pg.Write.Username, password: pg.Write.Password,
			dbName: DBName(config, pg.Write.Name), sslMode: pg.Write.SSLMode,
		}, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DBName returns the database name with prefix if configured.
func DBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// DSN renders a postgres connection URL.
func DSN(username, password, host, port, dbName, sslMode string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		username,
		password,
		net.JoinHostPort(host, port),
		dbName,
		sslMode,
	)
}

func connect(ep endpoint, maxRetry, waitTime int) *sqlx.DB {
	descriptor := DSN(ep.username, ep.password, ep.host, ep.port, ep.dbName, ep.sslMode)

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("name", ep.name).
				Str("host", ep.host).
				Str("port", ep.port).
				Str("dbName", ep.dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", ep.name).
			Str("host", ep.host).
			Str("port", ep.port).
			Str("dbName", ep.dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Str("name", ep.name).Msg("Giving up connecting to database")

	return nil
}
