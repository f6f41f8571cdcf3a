package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"nightspark/internal/platform/validation"
)

// ConfigPathEnvVar permite apuntar a un YAML explícito.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths se buscan en orden; el primero que exista gana.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Sources  SourcesConfig  `koanf:"sources"`
	Auth     AuthConfig     `koanf:"auth"`
}

type ServerConfig struct {
	Port         int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"min=0"`

	CORSOrigins []string `koanf:"cors_origins"`

	// 0 desactiva el rate limit por IP.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
	App    string `koanf:"app"`
}

type DatabaseConfig struct {
	// DSN vacío => repos in-memory.
	DSN string `koanf:"dsn"`
}

// SourcesConfig agrupa credenciales y resiliencia de los adapters.
// Una credencial vacía desactiva su adapter (se saltea, no "vuelve vacío").
type SourcesConfig struct {
	GoogleAPIKey       string `koanf:"google_api_key"`
	TicketmasterAPIKey string `koanf:"ticketmaster_api_key"`
	EventbriteAPIKey   string `koanf:"eventbrite_api_key"`

	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"min=0"`
	Burst         int           `koanf:"burst" validate:"min=0"`
	MaxRetries    int           `koanf:"max_retries" validate:"min=0,max=5"`

	Parallel       bool          `koanf:"parallel"`
	AdapterTimeout time.Duration `koanf:"adapter_timeout"`

	// HeuristicsPath reemplaza las tablas embebidas del normalizer.
	HeuristicsPath string `koanf:"heuristics_path"`
}

type AuthConfig struct {
	Mode         string `koanf:"mode" validate:"oneof=none jwt remote"`
	JWTSecret    string `koanf:"jwt_secret" validate:"required_if=Mode jwt"`
	RemoteURL    string `koanf:"remote_url" validate:"required_if=Mode remote,omitempty,url"`
	RemoteAPIKey string `koanf:"remote_api_key"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "nightspark",
		},
		Sources: SourcesConfig{
			Timeout:        8 * time.Second,
			RatePerSecond:  5,
			Burst:          2,
			MaxRetries:     1,
			Parallel:       false,
			AdapterTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Mode: "none",
		},
	}
}

// Load arma la config en capas: defaults -> YAML (opcional) -> env.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := splitCSV(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// envMappings traduce env vars conocidas a paths de koanf.
// Las variables que no están acá se ignoran.
var envMappings = map[string]string{
	"port":                    "server.port",
	"cors_origins":            "server.cors_origins",
	"rate_limit_requests":     "server.rate_limit_requests",
	"rate_limit_window":       "server.rate_limit_window",
	"log_level":               "log.level",
	"log_format":              "log.format",
	"app_name":                "log.app",
	"db_dsn":                  "database.dsn",
	"google_api_key":          "sources.google_api_key",
	"ticketmaster_api_key":    "sources.ticketmaster_api_key",
	"eventbrite_api_key":      "sources.eventbrite_api_key",
	"sources_timeout":         "sources.timeout",
	"sources_rate_per_second": "sources.rate_per_second",
	"sources_burst":           "sources.burst",
	"sources_max_retries":     "sources.max_retries",
	"sources_parallel":        "sources.parallel",
	"sources_adapter_timeout": "sources.adapter_timeout",
	"heuristics_path":         "sources.heuristics_path",
	"auth_mode":               "auth.mode",
	"auth_jwt_secret":         "auth.jwt_secret",
	"auth_remote_url":         "auth.remote_url",
	"auth_remote_api_key":     "auth.remote_api_key",
}

func envKey(key string) string {
	return envMappings[strings.ToLower(key)]
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitCSV convierte "a, b" (env) en []string; si ya es slice (YAML) no toca nada.
func splitCSV(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}
