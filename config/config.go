// Package config loads the tracker configuration from defaults, an optional
// YAML file, a .env file and the environment, in that order of increasing
// precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/financetracker/expense"
)

// Config holds the tracker settings.
type Config struct {
	// DataDir holds expenses.json, budget.json, the backup and exports.
	DataDir string `yaml:"data_dir"`

	// Currency is the symbol printed in front of amounts.
	Currency string `yaml:"currency"`

	// Categories overrides the default category set. Other is always added.
	Categories []string `yaml:"categories"`

	// Port is the default port of the serve command.
	Port int `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:    "data",
		Currency:   "₹",
		Categories: expense.DefaultCategories().Names(),
		Port:       8080,
	}
}

// Load builds a Config. A .env file in the working directory is applied
// when present. path names an optional YAML file; it is an error if path is
// set but cannot be read or parsed.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DataDir = getEnv("FINANCE_DATA_DIR", c.DataDir)
	c.Currency = getEnv("FINANCE_CURRENCY", c.Currency)

	if v := os.Getenv("FINANCE_CATEGORIES"); v != "" {
		c.Categories = strings.Split(v, ",")
	}

	if v := os.Getenv("FINANCE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FINANCE_PORT %q: must be a number", v)
		}
		c.Port = port
	}

	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data directory cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	for i, name := range c.Categories {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("category %d is empty", i+1))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// CategorySet returns the configured categories as an immutable set.
func (c *Config) CategorySet() expense.Categories {
	if len(c.Categories) == 0 {
		return expense.DefaultCategories()
	}
	return expense.NewCategories(c.Categories...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
