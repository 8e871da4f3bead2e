package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type WS struct {
	PingEvery string `yaml:"pingEvery"` // duration, default 15s
}

type Canvas struct {
	MaxStrokes int `yaml:"maxStrokes"` // default 10000
}

type Rooms struct {
	SweepEvery string `yaml:"sweepEvery"` // duration, default 5m
	MaxIdle    string `yaml:"maxIdle"`    // duration, default 30m
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // canvas-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	WS      WS      `yaml:"ws"`
	Canvas  Canvas  `yaml:"canvas"`
	Rooms   Rooms   `yaml:"rooms"`
	Logging Logging `yaml:"logging"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Canvas.MaxStrokes <= 0 {
		c.Canvas.MaxStrokes = 10000
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "canvas-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

func (c *Config) PingEvery() time.Duration {
	return parseDurationOr(15*time.Second, c.WS.PingEvery)
}

func (c *Config) SweepEvery() time.Duration {
	return parseDurationOr(5*time.Minute, c.Rooms.SweepEvery)
}

func (c *Config) MaxIdle() time.Duration {
	return parseDurationOr(30*time.Minute, c.Rooms.MaxIdle)
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
