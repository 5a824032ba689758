package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "EZWOODS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "EZWOODS_APP_ENV"
	EnvPort     = "EZWOODS_APP_PORT"
	EnvDBDSN    = "EZWOODS_DB_DSN"
	EnvDBHost   = "EZWOODS_DB_HOST"
	EnvDBUser   = "EZWOODS_DB_USER"
	EnvDBName   = "EZWOODS_DB_NAME"
	EnvRedisURL = "EZWOODS_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Razorpay     RazorpayConfig
	Store        StoreConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EZWOODS_APP_ENV" required:"true"`
	Port         string `envconfig:"EZWOODS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EZWOODS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EZWOODS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EZWOODS_DB_DSN"`
	Driver string `envconfig:"EZWOODS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EZWOODS_DB_HOST"`
	LegacyPort     int    `envconfig:"EZWOODS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EZWOODS_DB_USER"`
	LegacyPassword string `envconfig:"EZWOODS_DB_PASSWORD"`
	LegacyName     string `envconfig:"EZWOODS_DB_NAME"`
	LegacySSLMode  string `envconfig:"EZWOODS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EZWOODS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EZWOODS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EZWOODS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EZWOODS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EZWOODS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EZWOODS_REDIS_ADDR"`
	Password     string        `envconfig:"EZWOODS_REDIS_PASSWORD"`
	DB           int           `envconfig:"EZWOODS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EZWOODS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EZWOODS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EZWOODS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EZWOODS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EZWOODS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RazorpayConfig carries the hosted checkout credentials. Key pair may be left
// blank in environments without payments; checkout then fails with a
// configuration error instead of opening a session.
type RazorpayConfig struct {
	KeyID       string `envconfig:"EZWOODS_RAZORPAY_KEY_ID"`
	KeySecret   string `envconfig:"EZWOODS_RAZORPAY_KEY_SECRET"`
	Currency    string `envconfig:"EZWOODS_RAZORPAY_CURRENCY" default:"INR"`
	DisplayName string `envconfig:"EZWOODS_RAZORPAY_DISPLAY_NAME" default:"EzWoods"`
}

func (r RazorpayConfig) Enabled() bool {
	return strings.TrimSpace(r.KeyID) != "" && strings.TrimSpace(r.KeySecret) != ""
}

// StoreConfig holds operator-tunable storefront pricing knobs. Values are
// decimal strings so money never passes through binary floats.
type StoreConfig struct {
	FreeShippingThreshold string `envconfig:"EZWOODS_STORE_FREE_SHIPPING_THRESHOLD" default:"500"`
	FlatShippingFee       string `envconfig:"EZWOODS_STORE_FLAT_SHIPPING_FEE" default:"50"`
	TaxRate               string `envconfig:"EZWOODS_STORE_TAX_RATE" default:"0.08"`
	AdvanceRate           string `envconfig:"EZWOODS_STORE_ADVANCE_RATE" default:"0.25"`
}

func (s StoreConfig) validate() error {
	for name, raw := range map[string]string{
		"free shipping threshold": s.FreeShippingThreshold,
		"flat shipping fee":       s.FlatShippingFee,
		"tax rate":                s.TaxRate,
		"advance rate":            s.AdvanceRate,
	} {
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
	}
	return nil
}

// FreeShippingThresholdAmount parses the configured threshold. validate has
// already run, so parse failures cannot occur after Load.
func (s StoreConfig) FreeShippingThresholdAmount() decimal.Decimal {
	return decimal.RequireFromString(s.FreeShippingThreshold)
}

func (s StoreConfig) FlatShippingFeeAmount() decimal.Decimal {
	return decimal.RequireFromString(s.FlatShippingFee)
}

func (s StoreConfig) TaxRateAmount() decimal.Decimal {
	return decimal.RequireFromString(s.TaxRate)
}

func (s StoreConfig) AdvanceRateAmount() decimal.Decimal {
	return decimal.RequireFromString(s.AdvanceRate)
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EZWOODS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when %s is sqlite", EnvDBDSN, "EZWOODS_DB_DRIVER")
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
