package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort         = 8080
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultIdleTimeout  = 120 * time.Second

	DefaultStoreDriver   = "firestore"
	DefaultStoreDatabase = "gts"
)

// Config is the full runtime configuration of the API process.
type Config struct {
	Server Server `mapstructure:"server"`
	Store  Store  `mapstructure:"store"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Store selects and configures the document store backend.
// The credentials and ProjectID are used by firestore, URI by mongo and the SQL drivers.
// CredentialsBase64 takes precedence over CredentialsFile.
type Store struct {
	Driver            string `mapstructure:"driver"`
	CredentialsFile   string `mapstructure:"credentials_file"`
	CredentialsBase64 string `mapstructure:"credentials_base64"`
	ProjectID         string `mapstructure:"project_id"`
	URI               string `mapstructure:"uri"`
	Database          string `mapstructure:"database"`
}

// SetDefaults registers every known key on v so that AutomaticEnv can resolve it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultIdleTimeout)

	v.SetDefault("store.driver", DefaultStoreDriver)
	v.SetDefault("store.credentials_file", "")
	v.SetDefault("store.credentials_base64", "")
	v.SetDefault("store.project_id", "")
	v.SetDefault("store.uri", "")
	v.SetDefault("store.database", DefaultStoreDatabase)
}

// Load reads configuration from defaults, the optional file at path and the environment,
// in increasing order of precedence. Keys map to env vars by upper-casing and replacing
// dots with underscores, e.g. store.driver -> STORE_DRIVER.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read_config %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal_config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		return fmt.Errorf("store.driver is required")
	}

	return nil
}
