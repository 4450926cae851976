package config

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "SHOPONTHEFLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOPONTHEFLY_DB_DSN"
	EnvDBHost = "SHOPONTHEFLY_DB_HOST"
	EnvDBUser = "SHOPONTHEFLY_DB_USER"
	EnvDBName = "SHOPONTHEFLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
