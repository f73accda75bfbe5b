// Package config loads ganttboard settings from defaults, config.yaml, .env and
// GANTTBOARD_* environment variables, in increasing order of precedence. Command-line
// flags are applied on top by internal/cli.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "GANTTBOARD"
	envConfigDir = "GANTTBOARD_CONFIG_DIR"
)

type Config struct {
	Web    WebConfig    `yaml:"web" mapstructure:"web"`
	WebTUI WebTUIConfig `yaml:"webtui" mapstructure:"webtui"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	TUI    TUIConfig    `yaml:"tui" mapstructure:"tui"`
}

type WebConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Open bool   `yaml:"open" mapstructure:"open"`
}

type WebTUIConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
}

type TUIConfig struct {
	// Glyphs is "unicode" (default) or "ascii".
	Glyphs string `yaml:"glyphs" mapstructure:"glyphs"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("web.addr", "127.0.0.1:0")
	v.SetDefault("web.open", false)
	v.SetDefault("webtui.addr", "127.0.0.1:0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
	v.SetDefault("tui.glyphs", "unicode")
}

// Default returns the built-in settings.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Dir returns the config directory: $GANTTBOARD_CONFIG_DIR or ~/.ganttboard.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ganttboard"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration. An explicit path must exist; the default path is optional.
// A .env file in the working directory is loaded first so its values feed the
// GANTTBOARD_* environment overrides. Variables already set in the environment win.
func Load(explicitPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := strings.TrimSpace(explicitPath)
	optional := path == ""
	if optional {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, err
			}
		} else if !optional {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.TUI.Glyphs = strings.ToLower(strings.TrimSpace(cfg.TUI.Glyphs))
	return cfg, nil
}
