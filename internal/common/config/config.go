package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration loaded from config.yaml.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Tracking TrackingConfig `yaml:"tracking"`
}

type HTTPConfig struct {
	Port          int `yaml:"port"`
	MaxConcurrent int `yaml:"maxConcurrent"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey string   `yaml:"secretKey"`
	TTL       Duration `yaml:"ttl"`
}

// TrackingConfig tunes the simulated tracking engine. Zero values fall back
// to the engine defaults (10-15s preparation, 2s tick, 3s grace).
type TrackingConfig struct {
	PrepDelayMin Duration `yaml:"prepDelayMin"`
	PrepDelayMax Duration `yaml:"prepDelayMax"`
	TickInterval Duration `yaml:"tickInterval"`
	GraceDelay   Duration `yaml:"graceDelay"`
}

// Duration parses YAML values written in Go duration syntax ("2h", "10s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads and parses the configuration file, applying env overrides for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// secrets may come from the environment instead of the file
	if v := os.Getenv("FUELNFIX_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FUELNFIX_RABBITMQ_PASSWORD"); v != "" {
		cfg.RabbitMQ.Password = v
	}
	if v := os.Getenv("FUELNFIX_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("FUELNFIX_JWT_SECRET"); v != "" {
		cfg.JWT.SecretKey = v
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = Duration(2 * time.Hour)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in (0, 65535]")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("database.port must be positive")
	}
	if c.Database.User == "" || c.Database.Name == "" {
		return fmt.Errorf("database.user and database.database are required")
	}
	if c.RabbitMQ.Host == "" {
		return fmt.Errorf("rabbitmq.host is required")
	}
	if c.RabbitMQ.Port <= 0 {
		return fmt.Errorf("rabbitmq.port must be positive")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secretKey is required")
	}
	if c.Tracking.PrepDelayMin < 0 || c.Tracking.PrepDelayMax < 0 ||
		c.Tracking.TickInterval < 0 || c.Tracking.GraceDelay < 0 {
		return fmt.Errorf("tracking durations cannot be negative")
	}
	if c.Tracking.PrepDelayMax != 0 && c.Tracking.PrepDelayMax < c.Tracking.PrepDelayMin {
		return fmt.Errorf("tracking.prepDelayMax cannot be below tracking.prepDelayMin")
	}
	return nil
}
