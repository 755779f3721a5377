// Package config loads modgraph settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"modgraph/util"
)

type Config struct {
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
	Home        string `yaml:"home"`
	DBPath      string `yaml:"db"`
	PresetsFile string `yaml:"presets"`
	CacheSize   int    `yaml:"cache_size"`
	MetricsAddr string `yaml:"metrics_addr"`
	Repo        string `yaml:"repo"`
	Root        Root   `yaml:"root"`
}

// Root is the default tree root used when a caller names none.
type Root struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

// Default returns the built-in settings. Home and DBPath are resolved from
// the environment as described by DataHome.
func Default() (*Config, error) {
	home, err := DataHome()
	if err != nil {
		return nil, err
	}
	cwd, _ := os.Getwd()
	return &Config{
		Env:       "local",
		LogLevel:  "",
		Home:      home,
		DBPath:    DefaultDBPath(home),
		CacheSize: 128,
		Repo:      util.RepoLabel(cwd),
		Root:      Root{ID: ".", Type: "Folder"},
	}, nil
}

// Load builds the configuration. A .env file in the working directory is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(os.Getenv("MODGRAPH_CONFIG")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	home := c.Home
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("YAML syntax error in config %s: %w", path, err)
	}
	// A relocated home moves the default database with it.
	if c.Home != home && c.DBPath == DefaultDBPath(home) {
		c.DBPath = DefaultDBPath(c.Home)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Env = firstNonEmpty(env("MODGRAPH_ENV"), c.Env)
	c.LogLevel = firstNonEmpty(env("MODGRAPH_LOG_LEVEL"), c.LogLevel)
	c.DBPath = firstNonEmpty(env("MODGRAPH_DB"), c.DBPath)
	c.PresetsFile = firstNonEmpty(env("MODGRAPH_PRESETS"), c.PresetsFile)
	c.MetricsAddr = firstNonEmpty(env("MODGRAPH_METRICS_ADDR"), c.MetricsAddr)
	c.Repo = firstNonEmpty(env("MODGRAPH_REPO"), c.Repo)
	c.Root.ID = firstNonEmpty(env("MODGRAPH_ROOT_ID"), c.Root.ID)
	c.Root.Type = firstNonEmpty(env("MODGRAPH_ROOT_TYPE"), c.Root.Type)

	if raw := env("MODGRAPH_CACHE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MODGRAPH_CACHE_SIZE %q: must be a positive integer", raw)
		}
		c.CacheSize = n
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("invalid cache size %d: must be positive", c.CacheSize)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
