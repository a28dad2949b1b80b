package database

import (
	"fmt"
	"strings"

	"wikiquiz/internal/config"
	"wikiquiz/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver, registered as "oracle"
	"go.uber.org/zap"
)

const (
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"

	pgxDriverName = "pgx"
)

func init() {
	// go-ora takes :name placeholders; sqlx does not know its driver name.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
}

// SQLDriverName maps a configured driver to the database/sql driver name.
func SQLDriverName(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverOracle:
		return DriverOracle, nil
	case DriverPostgres, "postgresql", pgxDriverName:
		return pgxDriverName, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewSQLXDB connects to the configured database and pings it.
func NewSQLXDB(cfg config.DBConfig) (*sqlx.DB, error) {
	driverName, err := SQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	logger.Get().Info("Successfully connected to database",
		zap.String("driver", driverName),
		zap.String("host", cfg.Host),
	)
	return db, nil
}
