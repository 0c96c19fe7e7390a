package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ROSSA_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL     string        `default:"" usage:"Product API base URL (ROSSA_API_BASE_URL)" flag:"api-base-url"`
	PageSize       int           `default:"16" usage:"Catalog page size" flag:"page-size"`
	SearchDebounce time.Duration `default:"400ms" usage:"Quiet interval before a search commit" flag:"search-debounce"`
	CartPath       string        `default:"" usage:"Cart database path (defaults to the user config dir)" flag:"cart-path"`
	Query          string        `default:"" usage:"Restore a shared catalog query, e.g. \"search=filtro&page=2\"" flag:"query"`
	HTTP           HTTPConfig
}

// HTTPConfig controls the API client transport.
type HTTPConfig struct {
	Timeout       time.Duration `default:"10s" usage:"API request timeout"`
	RetryAttempts int           `default:"3" usage:"Attempts per idempotent request, including the first" flag:"retry-attempts"`
	RetryBackoff  time.Duration `default:"200ms" usage:"Initial retry backoff" flag:"retry-backoff"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files, then applies fallbacks.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ROSSA",
		Files:     []string{"config.yaml", "/etc/rossa/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API base URL is required: set ROSSA_API_BASE_URL or API_BASE_URL")
	}

	return &cfg, nil
}

// applyDefaults maps the unprefixed API_BASE_URL variable hosting platforms
// set, and places the cart database under the user's config directory when
// no explicit path is given.
func (c *Config) applyDefaults() error {
	if c.APIBaseURL == "" {
		if v := os.Getenv("API_BASE_URL"); v != "" {
			c.APIBaseURL = v
		}
	}
	if c.CartPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return errors.Wrap(err, "resolve user config dir")
		}
		c.CartPath = filepath.Join(dir, "rossa-storefront", "cart.db")
	}
	return nil
}
