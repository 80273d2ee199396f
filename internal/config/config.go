package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	Email      EmailConfig
	Scheduler  SchedulerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	// Secret signs HS256 JWTs issued on login/registration
	Secret string `validate:"required"`
	// TokenExpiry is the lifetime of issued tokens
	TokenExpiry time.Duration
	// OTPExpiry is the lifetime of registration OTP codes
	OTPExpiry time.Duration
	// OTPMaxAttempts caps failed verification attempts per code
	OTPMaxAttempts int
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromAddress string
	ReplyTo     string
}

type SchedulerConfig struct {
	// Enabled gates the reminder scheduler for this process
	Enabled bool
	// CronSpec is the robfig/cron schedule for the reminder scan
	CronSpec string
	// LockFile is the advisory lock path guarding against duplicate
	// schedulers across worker processes on one host
	LockFile string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/billforge")

	v.SetEnvPrefix("BILLFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional: env vars and defaults are enough to boot
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("auth.tokenexpiry", 30*24*time.Hour)
	v.SetDefault("auth.otpexpiry", 10*time.Minute)
	v.SetDefault("auth.otpmaxattempts", 5)
	v.SetDefault("scheduler.cronspec", "@hourly")
	v.SetDefault("scheduler.lockfile", "/tmp/billforge-scheduler.lock")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests without a config file
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth: AuthConfig{
			Secret:         "local-development-secret",
			TokenExpiry:    30 * 24 * time.Hour,
			OTPExpiry:      10 * time.Minute,
			OTPMaxAttempts: 5,
		},
		Scheduler: SchedulerConfig{
			CronSpec: "@hourly",
			LockFile: "/tmp/billforge-scheduler.lock",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
