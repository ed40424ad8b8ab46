package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"fabric-cost/internal/costing"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Remote     MySQL   `yaml:"remote"`
	Sync       Sync    `yaml:"sync"`
	Chat       Chat    `yaml:"chat"`

	Constants costing.Constants `yaml:"constants"`

	AdminLogin     string   `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass      string   `yaml:"admin_pass" env:"ADMIN_PASS"`
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:5173"`
	MetricsEnabled bool     `yaml:"metrics_enabled" env-default:"true"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage selects the primary history store.
type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./data/fabric-cost.db"`
	MySQL      MySQL  `yaml:"mysql"`
	Migrate    bool   `yaml:"migrate" env-default:"true"`
}

type MySQL struct {
	User     string `yaml:"db_user"`
	Password string `yaml:"db_password" env:"DB_PASSWORD"`
	Host     string `yaml:"db_host" env-default:"localhost"`
	Port     int    `yaml:"db_port" env-default:"3306"`
	Name     string `yaml:"db_name"`
}

// Sync pushes the local sqlite history to the remote mysql store.
type Sync struct {
	Enabled    bool          `yaml:"enabled" env-default:"false"`
	Interval   time.Duration `yaml:"interval" env-default:"1m"`
	BatchSize  int           `yaml:"batch_size" env-default:"50"`
	MaxRetries uint64        `yaml:"max_retries" env-default:"3"`
	Workers    int           `yaml:"workers" env-default:"4"`
}

type Chat struct {
	BaseURL string        `yaml:"base_url" env:"CHAT_BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"CHAT_API_KEY"`
	User    string        `yaml:"user" env-default:"fabric-cost"`
	Timeout time.Duration `yaml:"timeout" env-default:"60s"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	cfg.Constants = withDefaults(cfg.Constants)
	if err := cfg.Constants.Validate(); err != nil {
		return nil, fmt.Errorf("constants: %w", err)
	}

	switch cfg.Storage.Driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}

// withDefaults fills constants missing from the file.
func withDefaults(c costing.Constants) costing.Constants {
	d := costing.DefaultConstants()
	if c.WarpDivider == 0 {
		c.WarpDivider = d.WarpDivider
	}
	if c.WeftDivider == 0 {
		c.WeftDivider = d.WeftDivider
	}
	if c.MinutesPerDay == 0 {
		c.MinutesPerDay = d.MinutesPerDay
	}
	if c.DefaultDValue == 0 {
		c.DefaultDValue = d.DefaultDValue
	}
	return c
}
