package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"questpath/internal/repository"
	"questpath/pkg/auth"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Backend   BackendConfig     `mapstructure:"backend"`
	Storage   repository.Config `mapstructure:"storage"`
	Firebase  FirebaseConfig    `mapstructure:"firebase"`
	Catalog   CatalogConfig     `mapstructure:"catalog"`
	RateLimit RateLimitConfig   `mapstructure:"rateLimit"`

	LogLevel string `mapstructure:"logLevel"`
}

// ServerConfig controls the listener. AllowedOrigins lists the browser
// origins allowed by CORS and the progress websocket. TrustedProxies lists
// the peers whose X-Forwarded-For header is believed; empty trusts none.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	TrustedProxies []string `mapstructure:"trustedProxies"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FirebaseConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	ProjectID       string `mapstructure:"projectId"`
	CredentialsFile string `mapstructure:"credentialsFile"`
}

func (c FirebaseConfig) Auth() auth.FirebaseConfig {
	return auth.FirebaseConfig{
		ProjectID:       c.ProjectID,
		CredentialsFile: c.CredentialsFile,
	}
}

// CatalogConfig points at a local YAML quest file. When Path is empty
// quests are listed from the backend.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.trustedProxies", []string{})
	v.SetDefault("backend.baseUrl", "http://localhost:8000/api/v1")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("storage.driver", repository.DriverSQLite)
	v.SetDefault("storage.path", "questpath.db")
	v.SetDefault("rateLimit.rps", 5)
	v.SetDefault("rateLimit.burst", 30)
	v.SetDefault("logLevel", "info")
}

// LoadConfig reads config.yaml from dir, overlaid by APP_ environment
// variables. A .env file in dir is loaded first when present.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = configPath
	}
	_ = godotenv.Load(strings.TrimRight(dir, "/") + "/.env")

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(dir)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
