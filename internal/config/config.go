// Package config loads intake-cli settings from defaults, an optional YAML
// file and INTAKE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INTAKE_PROMPT_DRIVER.
const EnvPrefix = "INTAKE"

// EnvConfigPath names the variable holding a config file path.
const EnvConfigPath = "INTAKE_CONFIG"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Prompt PromptConfig `mapstructure:"prompt"`
	Output OutputConfig `mapstructure:"output"`
	Render RenderConfig `mapstructure:"render"`
	Steps  StepsConfig  `mapstructure:"steps"`
}

type LogConfig struct {
	Verbosity int `mapstructure:"verbosity"`
}

type PromptConfig struct {
	// Driver is the terminal toolkit: survey or huh.
	Driver string `mapstructure:"driver"`
}

type OutputConfig struct {
	// Format is json or yaml.
	Format string `mapstructure:"format"`
}

type RenderConfig struct {
	Theme   string `mapstructure:"theme"`
	Variant string `mapstructure:"variant"`
}

type StepsConfig struct {
	// Dir holds extra YAML or JSON step definitions.
	Dir string `mapstructure:"dir"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// $INTAKE_CONFIG is tried, then config.yaml under the user config dir, and a
// missing default file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("prompt.driver", "survey")
	v.SetDefault("output.format", "json")
	v.SetDefault("render.theme", "")
	v.SetDefault("render.variant", "")
	v.SetDefault("steps.dir", "")

	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path, explicit = env, true
		}
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "intake"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	c.Prompt.Driver = strings.ToLower(strings.TrimSpace(c.Prompt.Driver))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the CLI cannot act on.
func (c Config) Validate() error {
	switch c.Prompt.Driver {
	case "survey", "huh":
	default:
		return fmt.Errorf("config: unknown prompt.driver %q (want survey or huh)", c.Prompt.Driver)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: unknown output.format %q (want json or yaml)", c.Output.Format)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("config: log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
