package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the CLI needs to reach the backend.
type Config struct {
	APIURL      string
	TokenFile   string
	JournalFile string
	Timeout     time.Duration
}

// loadConfig reads configuration with the usual priority:
// COMANDA_* environment variables, then ~/.comanda/config.toml, then the
// built-in defaults (local dev server).
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	configDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".comanda")
		v.AddConfigPath(configDir)
	}

	v.SetDefault("api.url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("token_file", filepath.Join(configDir, "token"))
	v.SetDefault("journal_file", filepath.Join(configDir, "journal.db"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cli: read config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	v.SetEnvPrefix("COMANDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("api.timeout"))
	if err != nil {
		return nil, fmt.Errorf("cli: invalid api.timeout: %w", err)
	}

	return &Config{
		APIURL:      v.GetString("api.url"),
		TokenFile:   v.GetString("token_file"),
		JournalFile: v.GetString("journal_file"),
		Timeout:     timeout,
	}, nil
}
