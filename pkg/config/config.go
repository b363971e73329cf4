package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App AppConfig
	DB  DBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RESERVLINE_APP_ENV" default:"dev"`
	Port         string `envconfig:"RESERVLINE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RESERVLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RESERVLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver string `envconfig:"RESERVLINE_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"RESERVLINE_DB_PATH" default:"reservations.db"`
	DSN    string `envconfig:"RESERVLINE_DB_DSN"`

	MaxOpenConns    int           `envconfig:"RESERVLINE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RESERVLINE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RESERVLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RESERVLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// resolve fills the DSN from DATABASE_URL when the platform provides one and
// switches the driver to match. A bare DSN forces the postgres driver.
func (db *DBConfig) resolve() error {
	if db.DSN == "" {
		db.DSN = os.Getenv(EnvDatabaseURL)
	}
	if db.DSN != "" {
		db.Driver = DriverPostgres
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite, "":
		db.Driver = DriverSQLite
		if db.Path == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBPath)
		}
		return nil
	case DriverPostgres:
		return fmt.Errorf("either %s or %s is required for the postgres driver", EnvDBDSN, EnvDatabaseURL)
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}
