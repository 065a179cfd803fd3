package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Approval  ApprovalConfig  `mapstructure:"approval"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
}

type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type ApprovalConfig struct {
	StockPolicy string `mapstructure:"stock_policy"` // reject | clamp
}

type InventoryConfig struct {
	LowStockRatio float64 `mapstructure:"low_stock_ratio"`
}

type UploadsConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// PricingConfig holds the shop-wide defaults used when a quote omits them.
type PricingConfig struct {
	EnergyPriceKWh      float64 `mapstructure:"energy_price_kwh"`
	LaborRate           float64 `mapstructure:"labor_rate"`
	DepreciationPerHour float64 `mapstructure:"depreciation_per_hour"`
	FailureRatePct      float64 `mapstructure:"failure_rate_pct"`
	MarginPct           float64 `mapstructure:"margin_pct"`
}

const envPrefix = "PRINTSHOP"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.path", "printshop.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("approval.stock_policy", "reject")
	v.SetDefault("inventory.low_stock_ratio", 0.15)
	v.SetDefault("uploads.max_bytes", int64(200<<20))

	v.SetDefault("pricing.energy_price_kwh", 0.85)
	v.SetDefault("pricing.labor_rate", 0)
	v.SetDefault("pricing.depreciation_per_hour", 0.5)
	v.SetDefault("pricing.failure_rate_pct", 10)
	v.SetDefault("pricing.margin_pct", 50)
}

// Load reads configs/config.yml (or ./config.yml) and applies PRINTSHOP_*
// environment overrides, e.g. PRINTSHOP_DB_PATH. A missing file is fine.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("auth.signing_key must be set")
	}
	switch c.Approval.StockPolicy {
	case "reject", "clamp":
	default:
		return fmt.Errorf("approval.stock_policy must be reject or clamp, got %q", c.Approval.StockPolicy)
	}
	if c.Inventory.LowStockRatio < 0 || c.Inventory.LowStockRatio > 1 {
		return fmt.Errorf("inventory.low_stock_ratio must be within [0,1], got %v", c.Inventory.LowStockRatio)
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("uploads.max_bytes must be positive")
	}
	return nil
}
