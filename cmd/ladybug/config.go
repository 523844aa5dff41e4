package main

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// AssetConfig names one asset to preload into the resource catalog.
// Kind is "image" or "sound".
type AssetConfig struct {
	Kind string `mapstructure:"kind"`
	ID   string `mapstructure:"id"`
	Path string `mapstructure:"path"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// Config is read from ladybug.yaml and LADYBUG_* environment variables.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Terminal bool          `mapstructure:"terminal"`
	FPS      int           `mapstructure:"fps"`
	Debug    bool          `mapstructure:"debug"`
	Audio    bool          `mapstructure:"audio"`
	Window   WindowConfig  `mapstructure:"window"`
	AssetDir string        `mapstructure:"asset_dir"`
	Workers  int           `mapstructure:"workers"`
	Assets   []AssetConfig `mapstructure:"assets"`
	Entities []string      `mapstructure:"entities"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("terminal", false)
	v.SetDefault("fps", 60)
	v.SetDefault("debug", false)
	v.SetDefault("audio", false)
	v.SetDefault("window.title", "ladybug")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("asset_dir", "assets")
	v.SetDefault("workers", 4)
	v.SetDefault("entities", []string{})
}

// LoadConfig reads path, or ./ladybug.yaml when path is empty. A missing default
// file is not an error; a missing explicit file is.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LADYBUG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ladybug")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, eris.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "decode config")
	}
	return cfg, nil
}
