package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "lukouhub"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LUKOUHUB_DB_DSN"
	EnvDBHost = "LUKOUHUB_DB_HOST"
	EnvDBUser = "LUKOUHUB_DB_USER"
	EnvDBName = "LUKOUHUB_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
