package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Sales        SalesConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sales.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATCOIN_APP_ENV" default:"dev"`
	Port         string `envconfig:"CATCOIN_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"CATCOIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATCOIN_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list for the register UI.
	CORSOrigins []string `envconfig:"CATCOIN_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"CATCOIN_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CATCOIN_DB_DSN" default:"catcoin.db"`

	MaxOpenConns    int           `envconfig:"CATCOIN_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CATCOIN_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CATCOIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATCOIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded store is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

func (db *DBConfig) validate() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverSQLite, DriverPostgres, db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// RedisConfig is optional; an empty URL disables idempotency replay and the
// distributed cron lock.
type RedisConfig struct {
	URL          string        `envconfig:"CATCOIN_REDIS_URL"`
	PoolSize     int           `envconfig:"CATCOIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATCOIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATCOIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATCOIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATCOIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type SalesConfig struct {
	TaxRate           string `envconfig:"CATCOIN_SALES_TAX_RATE" default:"0.08"`
	EnforceStock      bool   `envconfig:"CATCOIN_SALES_ENFORCE_STOCK" default:"true"`
	SecondaryRule     string `envconfig:"CATCOIN_SALES_SECONDARY_RULE" default:"floor_total"`
	Timezone          string `envconfig:"CATCOIN_SALES_TIMEZONE" default:"UTC"`
	LowStockThreshold int    `envconfig:"CATCOIN_SALES_LOW_STOCK_THRESHOLD" default:"10"`
}

// TaxRateDecimal returns the parsed tax rate. Load has already validated it.
func (s SalesConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.TaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

// Location resolves the timezone that decides which calendar date a sale belongs to.
func (s SalesConfig) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(s.Timezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *SalesConfig) validate() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.TaxRate))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvTaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be in [0, 1), got %s", EnvTaxRate, rate)
	}
	s.SecondaryRule = strings.ToLower(strings.TrimSpace(s.SecondaryRule))
	switch s.SecondaryRule {
	case SecondaryRuleFloorTotal, SecondaryRuleNone:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvSecondary, SecondaryRuleFloorTotal, SecondaryRuleNone, s.SecondaryRule)
	}
	if _, err := time.LoadLocation(strings.TrimSpace(s.Timezone)); err != nil {
		return fmt.Errorf("%s: %w", EnvTimezone, err)
	}
	if s.LowStockThreshold < 0 {
		return fmt.Errorf("%s must be >= 0", EnvLowStock)
	}
	return nil
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"CATCOIN_CRON_INTERVAL" default:"1h"`
	ReconcileDays int           `envconfig:"CATCOIN_CRON_RECONCILE_DAYS" default:"2"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CATCOIN_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"CATCOIN_SEED_CATALOG" default:"false"`
}
