package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "RESERVLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "RESERVLINE_APP_ENV"
	EnvPort     = "RESERVLINE_APP_PORT"
	EnvLogLevel = "RESERVLINE_LOG_LEVEL"
	EnvDBDriver = "RESERVLINE_DB_DRIVER"
	EnvDBPath   = "RESERVLINE_DB_PATH"
	EnvDBDSN    = "RESERVLINE_DB_DSN"

	// EnvDatabaseURL is the unprefixed DSN most hosting platforms inject.
	EnvDatabaseURL = "DATABASE_URL"
)
