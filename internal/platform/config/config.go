// Package config loads service settings from defaults, an optional TOML/YAML
// file and WEALTHSIM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. WEALTHSIM_GRPC_PORT
const EnvPrefix = "WEALTHSIM"

// ConfigFileEnv names the variable holding the optional config file path
const ConfigFileEnv = "WEALTHSIM_CONFIG"

// Config is the complete service configuration
type Config struct {
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig holds the shared token. Empty disables authentication.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig selects PostgreSQL when DSN is set, in-memory storage otherwise
type DatabaseConfig struct {
	DSN     string `mapstructure:"dsn"`
	Migrate bool   `mapstructure:"migrate"`
}

// RedisConfig selects the Redis result cache when Addr is set
type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// MetricsConfig exposes Prometheus metrics on Addr. Empty disables the listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SimulationConfig holds the default economic assumptions as decimal strings
type SimulationConfig struct {
	InflationRate           string `mapstructure:"inflation_rate"`
	MarginalTaxRate         string `mapstructure:"marginal_tax_rate"`
	CapitalGainsTaxDiscount string `mapstructure:"capital_gains_tax_discount"`
	StampDutyRate           string `mapstructure:"stamp_duty_rate"`
	ClosingCosts            string `mapstructure:"closing_costs"`
}

// Load reads the file named by WEALTHSIM_CONFIG (if any) and applies overrides
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile reads configPath (skipped when empty) on top of the defaults and
// applies environment overrides
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis ttl must not be negative")
	}
	if _, err := c.Simulation.Assumptions(); err != nil {
		return err
	}
	return nil
}

// Assumptions parses the simulation section and validates it as a SimulationConfig
func (s SimulationConfig) Assumptions() (domain.Assumptions, error) {
	var a domain.Assumptions
	var err error
	if a.InflationRate, err = parseDecimal("simulation.inflation_rate", s.InflationRate); err != nil {
		return domain.Assumptions{}, err
	}
	if a.MarginalTaxRate, err = parseDecimal("simulation.marginal_tax_rate", s.MarginalTaxRate); err != nil {
		return domain.Assumptions{}, err
	}
	if a.CapitalGainsTaxDiscount, err = parseDecimal("simulation.capital_gains_tax_discount", s.CapitalGainsTaxDiscount); err != nil {
		return domain.Assumptions{}, err
	}
	if a.StampDutyRate, err = parseDecimal("simulation.stamp_duty_rate", s.StampDutyRate); err != nil {
		return domain.Assumptions{}, err
	}
	if a.ClosingCosts, err = parseDecimal("simulation.closing_costs", s.ClosingCosts); err != nil {
		return domain.Assumptions{}, err
	}

	if _, err := a.SimulationConfig(); err != nil {
		return domain.Assumptions{}, err
	}
	return a, nil
}

func parseDecimal(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grpc.port", 50051)

	v.SetDefault("auth.token", "")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/wealthsim.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	v.SetDefault("simulation.inflation_rate", domain.DefaultInflationRate.String())
	v.SetDefault("simulation.marginal_tax_rate", domain.DefaultMarginalTaxRate.String())
	v.SetDefault("simulation.capital_gains_tax_discount", domain.DefaultCapitalGainsTaxDiscount.String())
	v.SetDefault("simulation.stamp_duty_rate", domain.DefaultStampDutyRate.String())
	v.SetDefault("simulation.closing_costs", domain.DefaultClosingCosts.String())
}
