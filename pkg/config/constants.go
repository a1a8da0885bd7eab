package config

const (
	EnvPrefix = "podomall"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PODOMALL_APP_ENV"
	EnvPort   = "PODOMALL_APP_PORT"

	EnvDBDSN  = "PODOMALL_DB_DSN"
	EnvDBHost = "PODOMALL_DB_HOST"
	EnvDBUser = "PODOMALL_DB_USER"
	EnvDBName = "PODOMALL_DB_NAME"

	EnvRedisURL = "PODOMALL_REDIS_URL"

	EnvJWTSecret  = "PODOMALL_JWT_SECRET"
	EnvJWTIssuer  = "PODOMALL_JWT_ISSUER"
	EnvJWTExpMins = "PODOMALL_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
