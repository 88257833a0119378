// Package config загружает конфигурацию приложения: значения по умолчанию,
// затем необязательный YAML-файл, затем переменные окружения.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DBSSLmode определяет режим SSL-подключения к PostgreSQL.
type DBSSLmode string

const (
	// SSLDisable - SSL-шифрование отключено.
	SSLDisable DBSSLmode = "disable"
	// SSLRequire - SSL обязателен, но сертификат сервера не проверяется.
	SSLRequire DBSSLmode = "require"
	// SSLVerifyFull - SSL обязателен, сертификат сервера проверяется.
	SSLVerifyFull DBSSLmode = "verify-full"
)

// IsValid возвращает true, если значение является допустимым режимом SSL.
func (m DBSSLmode) IsValid() bool {
	switch m {
	case SSLDisable, SSLRequire, SSLVerifyFull:
		return true
	default:
		return false
	}
}

// Driver - бэкенд хранилища событий.
type Driver string

const (
	// DriverPostgres - PostgreSQL через pgx.
	DriverPostgres Driver = "postgres"
	// DriverSQLite - SQLite через gorm.
	DriverSQLite Driver = "sqlite"
	// DriverMongo - MongoDB.
	DriverMongo Driver = "mongo"
)

// IsValid возвращает true для поддерживаемого драйвера.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite, DriverMongo:
		return true
	default:
		return false
	}
}

// ServerConfig - конфигурация HTTP-сервера.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DBConfig - набор параметров для подключения к базе данных.
type DBConfig struct {
	Driver   Driver    `yaml:"driver"`
	Host     string    `yaml:"host"`
	User     string    `yaml:"user"`
	Password string    `yaml:"password"`
	Name     string    `yaml:"name"`
	SSLmode  DBSSLmode `yaml:"sslmode"`
	Port     int       `yaml:"port"`
}

// SQLiteConfig - параметры SQLite.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MongoConfig - параметры MongoDB.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// EventsConfig - параметры чтения событий.
type EventsConfig struct {
	Limit int `yaml:"limit"`
}

// WebhookConfig - ограничения на приём уведомлений.
// RateLimit задаётся в уведомлениях в секунду, 0 отключает ограничение.
type WebhookConfig struct {
	MaxBodyBytes int64   `yaml:"max_body_bytes"`
	RateLimit    float64 `yaml:"rate_limit"`
	RateBurst    int     `yaml:"rate_burst"`
}

// LogConfig - параметры логирования.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config - полная конфигурация сервиса.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Events  EventsConfig  `yaml:"events"`
	Webhook WebhookConfig `yaml:"webhook"`
	Log     LogConfig     `yaml:"log"`

	// Warnings - некритичные проблемы, исправленные значениями по умолчанию.
	Warnings []string `yaml:"-"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		DB: DBConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "webhook",
			Password: "webhook",
			Name:     "github_webhooks",
			SSLmode:  SSLDisable,
		},
		SQLite: SQLiteConfig{Path: "events.db"},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017/",
			Database: "github_webhooks",
		},
		Events:  EventsConfig{Limit: 50},
		Webhook: WebhookConfig{MaxBodyBytes: 25 << 20, RateBurst: 20},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load собирает конфигурацию. path может быть пустым.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file failed: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file failed: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.validate()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)

	c.DB.Driver = Driver(getEnv("DB_DRIVER", string(c.DB.Driver)))
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnv("DB_NAME", c.DB.Name)
	c.DB.SSLmode = DBSSLmode(getEnv("DB_SSLMODE", string(c.DB.SSLmode)))

	c.SQLite.Path = getEnv("SQLITE_PATH", c.SQLite.Path)
	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DATABASE", c.Mongo.Database)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	var err error
	if c.DB.Port, err = getEnvInt("DB_PORT", c.DB.Port); err != nil {
		return err
	}
	if c.Events.Limit, err = getEnvInt("EVENTS_LIMIT", c.Events.Limit); err != nil {
		return err
	}
	if c.Webhook.RateBurst, err = getEnvInt("WEBHOOK_RATE_BURST", c.Webhook.RateBurst); err != nil {
		return err
	}

	if v := os.Getenv("WEBHOOK_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid WEBHOOK_MAX_BODY_BYTES: %w", err)
		}
		c.Webhook.MaxBodyBytes = n
	}
	if v := os.Getenv("WEBHOOK_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid WEBHOOK_RATE_LIMIT: %w", err)
		}
		c.Webhook.RateLimit = f
	}

	return nil
}

func (c *Config) validate() {
	def := Default()

	if !c.DB.SSLmode.IsValid() {
		c.warnf("invalid DB_SSLMODE=%q; using default %q", c.DB.SSLmode, SSLDisable)
		c.DB.SSLmode = SSLDisable
	}
	if !c.DB.Driver.IsValid() {
		c.warnf("invalid DB_DRIVER=%q; using default %q", c.DB.Driver, def.DB.Driver)
		c.DB.Driver = def.DB.Driver
	}
	if c.Events.Limit <= 0 {
		c.warnf("invalid EVENTS_LIMIT=%d; using default %d", c.Events.Limit, def.Events.Limit)
		c.Events.Limit = def.Events.Limit
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		c.warnf("invalid WEBHOOK_MAX_BODY_BYTES=%d; using default %d", c.Webhook.MaxBodyBytes, def.Webhook.MaxBodyBytes)
		c.Webhook.MaxBodyBytes = def.Webhook.MaxBodyBytes
	}
	if c.Webhook.RateLimit < 0 {
		c.warnf("invalid WEBHOOK_RATE_LIMIT=%v; rate limiting disabled", c.Webhook.RateLimit)
		c.Webhook.RateLimit = 0
	}
	if c.Webhook.RateBurst <= 0 {
		c.Webhook.RateBurst = def.Webhook.RateBurst
	}
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// DSN возвращает строку подключения к PostgreSQL.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + string(c.SSLmode),
	}
	return u.String()
}
