package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server         Server         `toml:"server"`
	Database       Database       `toml:"database"`
	Redis          Redis          `toml:"redis"`
	PaymentGateway PaymentGateway `toml:"payment_gateway"`
	Sweeper        Sweeper        `toml:"sweeper"`
	Logs           Logs           `toml:"logs"`
	Metrics        Metrics        `toml:"metrics"`
}

// Server настройки HTTP сервера (таймауты в секундах)
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения PostgreSQL
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Redis настройки кэша доступных слотов
type Redis struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

// PaymentGateway настройки клиента платёжного шлюза
type PaymentGateway struct {
	URL           string `toml:"url"`
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
	Timeout       int    `toml:"timeout"` // секунды
}

// Sweeper настройки фоновой уборки брошенных pending-резерваций
type Sweeper struct {
	Enabled      bool `toml:"enabled"`
	Interval     int  `toml:"interval"`      // секунды
	GraceMinutes int  `toml:"grace_minutes"` // отсрочка после провала платежа
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// Load читает конфигурацию из TOML файла и подставляет дефолты
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: Server{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: Database{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: Redis{
			Addr:     "localhost:6379",
			CacheTTL: 30,
		},
		PaymentGateway: PaymentGateway{
			Timeout: 10,
		},
		Sweeper: Sweeper{
			Enabled:      true,
			Interval:     60,
			GraceMinutes: 15,
		},
		Logs: Logs{
			Level: "info",
		},
		Metrics: Metrics{
			ServiceName: "pc-reservation-service",
			Path:        "/metrics",
		},
	}
}
