package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"` // mysql or memory
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	// OrderTimeColumn is the creation-time column of the orders table; older
	// deployments use createdAt.
	OrderTimeColumn string `mapstructure:"order_time_column"`
	// OrderColumns maps canonical order fields (payment_method, ...) onto the
	// column names of the orders table, for deployments with camelCase columns.
	OrderColumns map[string]string `mapstructure:"order_columns"`
}

// Columns merges OrderTimeColumn into OrderColumns. An explicit created_at
// entry in OrderColumns wins.
func (c DBConfig) Columns() map[string]string {
	columns := make(map[string]string, len(c.OrderColumns)+1)
	for field, name := range c.OrderColumns {
		columns[field] = name
	}
	if _, ok := columns["created_at"]; !ok && c.OrderTimeColumn != "" {
		columns["created_at"] = c.OrderTimeColumn
	}
	return columns
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type BusinessConfig struct {
	UTCOffsetHours      int                 `mapstructure:"utc_offset_hours"`
	ShiftCutoff         string              `mapstructure:"shift_cutoff"`
	CupBaseline         int                 `mapstructure:"cup_baseline"`
	StandardPrice       int                 `mapstructure:"standard_price"`
	PremiumPrice        int                 `mapstructure:"premium_price"`
	PremiumItems        []string            `mapstructure:"premium_items"`
	ClosingLookbackDays int                 `mapstructure:"closing_lookback_days"`
	Transitions         map[string][]string `mapstructure:"transitions"`
}

// Location is the fixed business time zone.
func (b BusinessConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", b.UTCOffsetHours), b.UTCOffsetHours*3600)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("db.order_time_column", "created_at")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 15*time.Second)

	v.SetDefault("business.utc_offset_hours", 9)
	v.SetDefault("business.shift_cutoff", "16:50")
	v.SetDefault("business.cup_baseline", 200)
	v.SetDefault("business.standard_price", 300)
	v.SetDefault("business.premium_price", 500)
	v.SetDefault("business.premium_items", []string{"Premium", "プレミアム"})
	v.SetDefault("business.closing_lookback_days", 7)
	v.SetDefault("business.transitions", map[string][]string{
		"pending":   {"completed", "cancelled"},
		"completed": {"cancelled"},
		"cancelled": {"completed"},
	})
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.drinkstand/")
	v.AddConfigPath("/etc/drinkstand/")

	// Enable environment variable override with DRINKSTAND_ prefix
	v.SetEnvPrefix("DRINKSTAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
