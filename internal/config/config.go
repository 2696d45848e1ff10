package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	GinMode    string
	ServerAddr string
	LogLevel   string
	LogFormat  string

	// Inactivity handling
	ActivityStampInterval time.Duration
	GuestGracePeriod      time.Duration
	GuestIdleThreshold    time.Duration
	UserIdleThreshold     time.Duration
	SweepInterval         time.Duration
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		DBDriver:              strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBUser:                v.GetString("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBName:                v.GetString("DB_NAME"),
		DBPath:                v.GetString("DB_PATH"),
		GinMode:               v.GetString("GIN_MODE"),
		ServerAddr:            v.GetString("SERVER_ADDR"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		ActivityStampInterval: v.GetDuration("ACTIVITY_STAMP_INTERVAL"),
		GuestGracePeriod:      v.GetDuration("GUEST_GRACE_PERIOD"),
		GuestIdleThreshold:    v.GetDuration("GUEST_IDLE_THRESHOLD"),
		UserIdleThreshold:     v.GetDuration("USER_IDLE_THRESHOLD"),
		SweepInterval:         v.GetDuration("SWEEP_INTERVAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "joinuser")
	v.SetDefault("DB_PASSWORD", "joinpassword")
	v.SetDefault("DB_NAME", "join")
	v.SetDefault("DB_PATH", "join.db")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("ACTIVITY_STAMP_INTERVAL", "6s")
	v.SetDefault("GUEST_GRACE_PERIOD", "1m")
	v.SetDefault("GUEST_IDLE_THRESHOLD", "1m")
	v.SetDefault("USER_IDLE_THRESHOLD", "1m")
	v.SetDefault("SWEEP_INTERVAL", "30s")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return nil
}
