package config

const (
	EnvPrefix = "lenscard"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv  = "LENSCARD_APP_ENV"
	EnvAppPort = "LENSCARD_APP_PORT"

	EnvDBDSN  = "LENSCARD_DB_DSN"
	EnvDBHost = "LENSCARD_DB_HOST"
	EnvDBUser = "LENSCARD_DB_USER"
	EnvDBName = "LENSCARD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
