package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	OAuth struct {
		ClientID     string `mapstructure:"client_id" yaml:"client_id"`
		ClientSecret string `mapstructure:"client_secret" yaml:"-"`
		RedirectURI  string `mapstructure:"redirect_uri" yaml:"redirect_uri"`
		VaultPath    string `mapstructure:"vault_path" yaml:"vault_path"`
		Passphrase   string `mapstructure:"passphrase" yaml:"-"`
	} `mapstructure:"oauth" yaml:"oauth"`

	Sync struct {
		BatchSize    int `mapstructure:"batch_size" yaml:"batch_size"`
		BatchDelayMS int `mapstructure:"batch_delay_ms" yaml:"batch_delay_ms"`
		MaxResults   int `mapstructure:"max_results" yaml:"max_results"`
	} `mapstructure:"sync" yaml:"sync"`

	// IssuerTimezone is the timezone issuer notification emails are
	// written in. Dates in email bodies carry no zone of their own, so
	// this is an explicit, configurable assumption rather than an
	// implicit reliance on the host's local time.
	IssuerTimezone string `mapstructure:"issuer_timezone" yaml:"issuer_timezone"`
}

// BatchDelay returns the inter-batch delay as a duration.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.Sync.BatchDelayMS) * time.Millisecond
}

// Location resolves the configured issuer timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.IssuerTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer_timezone %q: %w", c.IssuerTimezone, err)
	}
	return loc, nil
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then MAILLET_*
// environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.maillet")
	v.AddConfigPath(".maillet")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MAILLET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going on a broken config file; defaults and env still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// Secrets always come from the environment, unprefixed.
	if err := v.BindEnv("oauth.client_id", "GOOGLE_CLIENT_ID"); err != nil {
		fmt.Printf("Warning: failed to bind GOOGLE_CLIENT_ID: %v\n", err)
	}
	if err := v.BindEnv("oauth.client_secret", "GOOGLE_CLIENT_SECRET"); err != nil {
		fmt.Printf("Warning: failed to bind GOOGLE_CLIENT_SECRET: %v\n", err)
	}
	if err := v.BindEnv("oauth.passphrase", "MAILLET_VAULT_PASSPHRASE"); err != nil {
		fmt.Printf("Warning: failed to bind MAILLET_VAULT_PASSPHRASE: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.path", defaultDataPath("transactions.db"))

	v.SetDefault("oauth.redirect_uri", "http://127.0.0.1:8742/callback")
	v.SetDefault("oauth.vault_path", defaultDataPath("credentials.enc"))

	v.SetDefault("sync.batch_size", 25)
	v.SetDefault("sync.batch_delay_ms", 1000)
	v.SetDefault("sync.max_results", 100)

	v.SetDefault("issuer_timezone", "Asia/Tokyo")
}

// defaultDataPath places application data under $HOME/.maillet, falling
// back to the working directory when no home is available.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".maillet", name)
}
