package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	LogLevel          string   `yaml:"log_level"`
	LogJSON           bool     `yaml:"log_json"`
	DefaultPageSize   int      `yaml:"default_page_size"`
	MaxPageSize       int      `yaml:"max_page_size"`
	ReconcileInterval int      `yaml:"reconcile_interval"` // seconds between counter recounts
	LikeRetryAttempts int      `yaml:"like_retry_attempts"`
	EventBufferSize   int      `yaml:"event_buffer_size"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
}

// ReconcileEvery returns the reconciliation period as a duration.
func (p Public) ReconcileEvery() time.Duration {
	return time.Duration(p.ReconcileInterval) * time.Second
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

// WithDefaults fills zero-valued tunables so a partial public.yaml still works.
func (p Public) WithDefaults() Public {
	if p.DefaultPageSize == 0 {
		p.DefaultPageSize = 20
	}
	if p.MaxPageSize == 0 {
		p.MaxPageSize = 100
	}
	if p.ReconcileInterval == 0 {
		p.ReconcileInterval = 300
	}
	if p.LikeRetryAttempts == 0 {
		p.LikeRetryAttempts = 3
	}
	if p.EventBufferSize == 0 {
		p.EventBufferSize = 64
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	return p
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public.WithDefaults(), private}
}
