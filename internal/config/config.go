// Package config загружает конфигурацию сервиса из TOML файла
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server     ServerConfig   `toml:"server"`
	Logs       LogsConfig     `toml:"logs"`
	Storage    StorageConfig  `toml:"storage"`
	Database   DatabaseConfig `toml:"database"`
	Metrics    MetricsConfig  `toml:"metrics"`
	Sweep      SweepConfig    `toml:"sweep"`
	Facilities []FacilitySeed `toml:"facilities"`
	Users      []UserSeed     `toml:"users"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// StorageConfig выбор драйвера хранилища
type StorageConfig struct {
	// Driver: "memory" или "postgres"
	Driver string `toml:"driver"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SweepConfig настройки периодического sweep-прохода
type SweepConfig struct {
	Enabled bool `toml:"enabled"`
	// Schedule в формате cron, поддерживаются и дескрипторы вида "@every 1m"
	Schedule string `toml:"schedule"`
}

// FacilitySeed начальное помещение реестра (для memory драйвера и стендов)
type FacilitySeed struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`
	Location  string   `toml:"location"`
	Capacity  int      `toml:"capacity"`
	Privilege string   `toml:"privilege"`
	Status    string   `toml:"status"`
	Notes     string   `toml:"notes"`
	Equipment []string `toml:"equipment"`
}

// UserSeed начальный пользователь (для memory драйвера и стендов)
type UserSeed struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Role string `toml:"role"`
}

const (
	// DriverMemory хранит все данные в памяти процесса
	DriverMemory = "memory"
	// DriverPostgres хранит данные в PostgreSQL
	DriverPostgres = "postgres"
)

// Load читает и валидирует конфигурацию из файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.Storage.Driver != DriverMemory && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("config: unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Logs.File == "" {
		cfg.Logs.File = "logs/app.log"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "facility-service"
	}
	if cfg.Sweep.Schedule == "" {
		cfg.Sweep.Schedule = "@every 1m"
	}
}
