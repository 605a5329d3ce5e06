package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override the config file.
const EnvPrefix = "AICUTS_"

const defaultAPI = "http://127.0.0.1:5000"

// minTimeout catches bare numbers such as "timeout: 30", which decode as
// nanoseconds.
const minTimeout = time.Second

// Config holds runtime settings for the client.
type Config struct {
	// Host plays the role of the page's hostname when picking a base URL.
	Host        string        `yaml:"host" koanf:"host"`
	LocalAPI    string        `yaml:"local_api" koanf:"local_api"`
	RemoteAPI   string        `yaml:"remote_api" koanf:"remote_api"`
	APIOverride string        `yaml:"api,omitempty" koanf:"api"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
	CatalogPath string        `yaml:"catalog_path,omitempty" koanf:"catalog_path"`
	LogFile     string        `yaml:"log_file,omitempty" koanf:"log_file"`
}

// Default returns the built-in settings. Both hosts point at the local
// backend until a deployed service exists.
func Default() *Config {
	return &Config{
		Host:      "localhost",
		LocalAPI:  defaultAPI,
		RemoteAPI: defaultAPI,
		Timeout:   60 * time.Second,
	}
}

// Load applies, in order, defaults, the YAML file at path (when present) and
// AICUTS_* environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of a .env file into the process
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

var localHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
}

// IsLocalHost reports whether host names the development machine.
func IsLocalHost(host string) bool {
	return localHosts[strings.ToLower(strings.TrimSpace(host))]
}

// BaseURL resolves the service base URL: an explicit override wins, then the
// local or remote API depending on Host.
func (c *Config) BaseURL() string {
	base := c.RemoteAPI
	switch {
	case c.APIOverride != "":
		base = c.APIOverride
	case IsLocalHost(c.Host):
		base = c.LocalAPI
	}
	return strings.TrimRight(base, "/")
}

// Validate checks URLs and the request timeout.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"local_api":  c.LocalAPI,
		"remote_api": c.RemoteAPI,
		"api":        c.APIOverride,
	} {
		if raw == "" && name == "api" {
			continue
		}
		if err := checkURL(raw); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
	}
	if c.Timeout < minTimeout {
		return fmt.Errorf("timeout must be at least %s, got %s (use a unit, e.g. 30s)", minTimeout, c.Timeout)
	}
	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
