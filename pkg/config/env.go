package config

const EnvPrefix = "CATCOIN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "CATCOIN_APP_ENV"
	EnvPort        = "CATCOIN_APP_PORT"
	EnvLogLevel    = "CATCOIN_LOG_LEVEL"
	EnvDBDriver    = "CATCOIN_DB_DRIVER"
	EnvDBDSN       = "CATCOIN_DB_DSN"
	EnvRedisURL    = "CATCOIN_REDIS_URL"
	EnvTaxRate     = "CATCOIN_SALES_TAX_RATE"
	EnvEnforce     = "CATCOIN_SALES_ENFORCE_STOCK"
	EnvSecondary   = "CATCOIN_SALES_SECONDARY_RULE"
	EnvTimezone    = "CATCOIN_SALES_TIMEZONE"
	EnvLowStock    = "CATCOIN_SALES_LOW_STOCK_THRESHOLD"
	EnvCronEvery   = "CATCOIN_CRON_INTERVAL"
	EnvAutoMigrate = "CATCOIN_AUTO_MIGRATE"
	EnvSeed        = "CATCOIN_SEED_CATALOG"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	SecondaryRuleFloorTotal = "floor_total"
	SecondaryRuleNone       = "none"
)
