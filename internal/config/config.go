package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Remote struct {
		URL          string `yaml:"url"`
		WSURL        string `yaml:"ws_url"`
		Compat       bool   `yaml:"compat"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
		MaxAttempts  int    `yaml:"max_attempts"`
		BackoffStep  string `yaml:"backoff_step"`
	} `yaml:"remote"`
	// History selects the local eligibility store. Path locates the file and
	// sqlite backends; Key and TTL apply to the redis backend only.
	History struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Key     string `yaml:"key"`
		TTL     string `yaml:"ttl"`
	} `yaml:"history"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Server struct {
		Port      string `yaml:"port"`
		Questions string `yaml:"questions"`
		XLSXPath  string `yaml:"xlsx_path"`
		Sheet     string `yaml:"sheet"`
		Results   string `yaml:"results"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		BankTTL string `yaml:"bank_ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing file yields defaults so the client can run from flags and env alone.
// Variables from a .env file in the working directory are loaded first.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Remote.URL, "QUIZ_REMOTE_URL")
	setString(&c.Remote.WSURL, "QUIZ_REMOTE_WS_URL")
	if v := os.Getenv("QUIZ_COMPAT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Remote.Compat = b
		}
	}
	setString(&c.History.Backend, "QUIZ_HISTORY_BACKEND")
	setString(&c.History.Path, "QUIZ_HISTORY_PATH")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Postgres.URL, "DATABASE_URL")
	setString(&c.Server.Port, "PORT")
}

func (c *Config) applyDefaults() {
	if c.History.Backend == "" {
		c.History.Backend = "file"
	}
	if c.History.Path == "" {
		switch c.History.Backend {
		case "sqlite":
			c.History.Path = "exam_history.db"
		default:
			c.History.Path = "exam_history.json"
		}
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Questions == "" {
		c.Server.Questions = "static"
	}
	if c.Server.Results == "" {
		c.Server.Results = "memory"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
