// Package config loads the service configuration from an optional file overlaid by the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smartmethods/persistence"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen            = ":8080"
	DefaultBucket            = "smartmethods"
	DefaultIndexSyncSchedule = "0 3 * * *"
)

type Config struct {
	Server        ServerConfig               `toml:"server" yaml:"server"`
	Database      persistence.DatabaseConfig `toml:"database" yaml:"database"`
	Elasticsearch ElasticsearchConfig        `toml:"elasticsearch" yaml:"elasticsearch"`
	OSS           OSSConfig                  `toml:"oss" yaml:"oss"`
	Log           LogConfig                  `toml:"log" yaml:"log"`
}

type ServerConfig struct {
	Listen         string  `toml:"listen" yaml:"listen"`
	RateLimitRPS   float64 `toml:"rateLimitRps" yaml:"rateLimitRps"`
	RateLimitBurst int     `toml:"rateLimitBurst" yaml:"rateLimitBurst"`
}

// ElasticsearchConfig with an empty URL disables search and indexing.
type ElasticsearchConfig struct {
	URL               string `toml:"url" yaml:"url"`
	IndexSyncSchedule string `toml:"indexSyncSchedule" yaml:"indexSyncSchedule"`
}

// OSSConfig with an empty endpoint disables the report archive.
type OSSConfig struct {
	Endpoint  string `toml:"endpoint" yaml:"endpoint"`
	AccessKey string `toml:"accessKey" yaml:"accessKey"`
	SecretKey string `toml:"secretKey" yaml:"secretKey"`
	Bucket    string `toml:"bucket" yaml:"bucket"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server:        ServerConfig{Listen: DefaultListen},
		Database:      persistence.DatabaseConfig{DriverType: persistence.DriverSqlite, DriverArgs: persistence.DefaultSqliteFile},
		Elasticsearch: ElasticsearchConfig{IndexSyncSchedule: DefaultIndexSyncSchedule},
		OSS:           OSSConfig{Bucket: DefaultBucket},
		Log:           LogConfig{Level: "info"},
	}
}

// Load reads path (when not empty) over the defaults, then applies the environment.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := decodeFile(path, c); err != nil {
			return nil, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeFile(path string, c *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	overrideString(&c.Server.Listen, "LISTEN_ADDR")
	if err := overrideFloat(&c.Server.RateLimitRPS, "RATE_LIMIT_RPS"); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		c.Server.RateLimitBurst = burst
	}

	db, err := persistence.ParseDatabaseConfigFromEnv(&c.Database)
	if err != nil {
		return err
	}
	c.Database = *db

	overrideString(&c.Elasticsearch.URL, "ELASTICSEARCH_URL")
	overrideString(&c.Elasticsearch.IndexSyncSchedule, "INDEX_SYNC_SCHEDULE")

	if v := strings.TrimSpace(os.Getenv("OSS_ENDPOINT")); v != "" {
		c.OSS.Endpoint = os.ExpandEnv(v)
	}
	overrideString(&c.OSS.AccessKey, "OSS_ACCESS_KEY")
	overrideString(&c.OSS.SecretKey, "OSS_SECRET_KEY")
	overrideString(&c.OSS.Bucket, "OSS_BUCKET")

	overrideString(&c.Log.Level, "LOG_LEVEL")
	return nil
}

func overrideString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func overrideFloat(target *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*target = f
	return nil
}
