package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Discord  DiscordConfig
	Database DatabaseConfig
	Export   ExportConfig
}

// DiscordConfig holds API access settings.
type DiscordConfig struct {
	TokenEnv string `mapstructure:"token_env"`
	Token    string
	Guild    string
}

// DatabaseConfig holds sqlite settings for the channel cache.
type DatabaseConfig struct {
	Path string
}

// ExportConfig holds workbook output settings.
type ExportConfig struct {
	Output        string
	WarnThreshold int `mapstructure:"warn_threshold"`
	Limit         int
	After         string
	Before        string
}

// Load reads configuration from file and env. Env var overrides use prefix DISCORD_EXPORTER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("discord.token_env", "DISCORD_TOKEN")
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild", "")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "discord-exporter-tui", "channels.db"))
	v.SetDefault("export.output", "discord_export.xlsx")
	v.SetDefault("export.warn_threshold", 50000)
	v.SetDefault("export.limit", 0)
	v.SetDefault("export.after", "")
	v.SetDefault("export.before", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DISCORD_EXPORTER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "discord-exporter-tui"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DISCORD_EXPORTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ResolveToken returns the bot token, preferring the env var named by
// TokenEnv over the value stored in the config file.
func (c Config) ResolveToken() string {
	if c.Discord.TokenEnv != "" {
		if tok := os.Getenv(c.Discord.TokenEnv); tok != "" {
			return tok
		}
	}
	return c.Discord.Token
}

// Save writes the provided config to disk, creating the config directory if needed.
// The token is stored in plain text in the config file; encourage users to prefer env vars.
func Save(cfg Config) error {
	path := os.Getenv("DISCORD_EXPORTER_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "discord-exporter-tui", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("discord.token_env", cfg.Discord.TokenEnv)
	v.Set("discord.token", cfg.Discord.Token)
	v.Set("discord.guild", cfg.Discord.Guild)
	v.Set("database.path", cfg.Database.Path)
	v.Set("export.output", cfg.Export.Output)
	v.Set("export.warn_threshold", cfg.Export.WarnThreshold)
	v.Set("export.limit", cfg.Export.Limit)
	v.Set("export.after", cfg.Export.After)
	v.Set("export.before", cfg.Export.Before)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
