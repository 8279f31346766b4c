package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Queue    QueueConfig    `koanf:"queue"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
}

// Addr is the listen address handed to echo.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"sslmode"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectDelay    time.Duration `koanf:"connect_delay"`
	InitDelay       time.Duration `koanf:"init_delay"`
	RequestAttempts int           `koanf:"request_attempts"`
}

type QueueConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

var defaults = map[string]any{
	"server.host":               "0.0.0.0",
	"server.port":               "5000",
	"database.host":             "localhost",
	"database.port":             5432,
	"database.name":             "flask_db",
	"database.user":             "flask_user",
	"database.password":         "supersecret",
	"database.sslmode":          "disable",
	"database.connect_attempts": 10,
	"database.connect_delay":    "5s",
	"database.init_delay":       "10s",
	"database.request_attempts": 1,
	"queue.brokers":             []string{},
	"queue.topic":               "messages.created",
	"log.level":                 "info",
}

// envKeys maps the environment variables the container sets onto config keys.
var envKeys = map[string]string{
	"HTTP_HOST":           "server.host",
	"HTTP_PORT":           "server.port",
	"DB_HOST":             "database.host",
	"DB_PORT":             "database.port",
	"DB_NAME":             "database.name",
	"DB_USER":             "database.user",
	"DB_PASS":             "database.password",
	"DB_SSLMODE":          "database.sslmode",
	"DB_CONNECT_ATTEMPTS": "database.connect_attempts",
	"DB_CONNECT_DELAY":    "database.connect_delay",
	"DB_INIT_DELAY":       "database.init_delay",
	"DB_REQUEST_ATTEMPTS": "database.request_attempts",
	"KAFKA_BROKERS":       "queue.brokers",
	"KAFKA_TOPIC":         "queue.topic",
	"LOG_LEVEL":           "log.level",
}

// Load builds the config from defaults, then the optional YAML file at path,
// then the environment. Later sources win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envValue maps a known variable onto its config key. List values are
// comma separated.
func envValue(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	if key == "queue.brokers" {
		return key, splitList(value)
	}
	return key, value
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("database.connect_attempts must be at least 1, got %d", c.Database.ConnectAttempts)
	}
	if c.Database.RequestAttempts < 1 {
		return fmt.Errorf("database.request_attempts must be at least 1, got %d", c.Database.RequestAttempts)
	}
	if c.Database.ConnectDelay < 0 || c.Database.InitDelay < 0 {
		return fmt.Errorf("database delays must not be negative")
	}
	return nil
}
