// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/validation"
)

// Configuration holds all configuration for the quote engine.
type Configuration struct {
	Server        ServerConfig     `mapstructure:"server"`
	Logging       LoggingConfig    `mapstructure:"logging"`
	Output        OutputConfig     `mapstructure:"output"`
	Database      DatabaseConfig   `mapstructure:"database"`
	Cache         CacheConfig      `mapstructure:"cache"`
	Tracing       TracingConfig    `mapstructure:"tracing"`
	Resilience    ResilienceConfig `mapstructure:"resilience"`
	Companies     []CompanyConfig  `mapstructure:"companies"`
	CompaniesFile string           `mapstructure:"companiesFile"`
}

// ServerConfig holds HTTP listener options.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	MaxBodySize     string        `mapstructure:"maxBodySize"` // e.g. 64K, 1M
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format"` // pretty, csv, json
}

// DatabaseConfig selects the PostgreSQL company store. An empty DSN keeps
// companies in memory.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
}

// CacheConfig selects where computed plans are cached.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"` // memory, redis, none
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redisAddr"`
	RedisPassword string        `mapstructure:"redisPassword"`
	RedisDB       int           `mapstructure:"redisDB"`
}

// TracingConfig configures OpenTelemetry export. An empty endpoint disables export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"serviceName"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sampleRatio"`
}

// ResilienceConfig tunes retries and the circuit breaker around the company store.
type ResilienceConfig struct {
	MaxRetries       int           `mapstructure:"maxRetries"`
	InitialBackoff   time.Duration `mapstructure:"initialBackoff"`
	MaxBackoff       time.Duration `mapstructure:"maxBackoff"`
	FailureThreshold uint32        `mapstructure:"failureThreshold"`
	OpenTimeout      time.Duration `mapstructure:"openTimeout"`
	HalfOpenRequests uint32        `mapstructure:"halfOpenRequests"`
}

// CompanyConfig seeds one company record.
type CompanyConfig struct {
	ID               string  `mapstructure:"id"`
	Name             string  `mapstructure:"name"`
	InterestRate     float64 `mapstructure:"interestRate"`
	PaymentFrequency string  `mapstructure:"paymentFrequency"`
	MaxCreditAmount  float64 `mapstructure:"maxCreditAmount"`
}

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.connMaxLifetime", 5*time.Minute)
	v.SetDefault("database.queryTimeout", 3*time.Second)

	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", time.Duration(constants.DefaultCacheTTLSeconds)*time.Second)
	v.SetDefault("cache.redisAddr", "localhost:6379")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.serviceName", "fincentiva")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sampleRatio", 1.0)

	v.SetDefault("resilience.maxRetries", 3)
	v.SetDefault("resilience.initialBackoff", 100*time.Millisecond)
	v.SetDefault("resilience.maxBackoff", 2*time.Second)
	v.SetDefault("resilience.failureThreshold", 5)
	v.SetDefault("resilience.openTimeout", 30*time.Second)
	v.SetDefault("resilience.halfOpenRequests", 1)

	v.SetDefault("companiesFile", "")
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with FINCENTIVA_
// override file values (FINCENTIVA_SERVER_ADDRESS for server.address). If the
// file does not exist, defaults are returned without error.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Configuration) normalize() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = CacheBackendMemory
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("expected cache backend of %s, %s or %s, got %s",
			CacheBackendMemory, CacheBackendRedis, CacheBackendNone, c.Cache.Backend)
	}

	if c.Resilience.MaxRetries < 0 {
		c.Resilience.MaxRetries = 0
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	companies := make([]validation.CompanyConfig, 0, len(c.Companies))
	for _, company := range c.Companies {
		companies = append(companies, validation.CompanyConfig{
			ID:               company.ID,
			Name:             company.Name,
			InterestRate:     company.InterestRate,
			PaymentFrequency: company.PaymentFrequency,
			MaxCreditAmount:  company.MaxCreditAmount,
		})
	}

	validator := validation.CompanyValidator{Companies: companies}
	warnings := validator.ValidateAll()

	if c.Database.DSN != "" && (len(c.Companies) > 0 || c.CompaniesFile != "") {
		warnings = append(warnings, "database.dsn is set; seeded companies are ignored")
	}
	return warnings
}
