package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the abootimg configuration file
// (~/.config/abootimg/config.yaml). It supplies defaults for flags the
// user did not set on the command line.
type Config struct {
	// Default extraction output names.
	ConfigName  string `yaml:"config_name"`
	KernelName  string `yaml:"kernel_name"`
	RamdiskName string `yaml:"ramdisk_name"`
	SecondName  string `yaml:"second_name"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "abootimg", "config.yaml")
}

// loadConfig reads the config file. Returns a zero Config if the file
// does not exist or cannot be parsed.
func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConfig folds config file defaults into the flag variables when the
// corresponding flag was not explicitly set.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.ConfigName != "" && !c.IsSet("config-file") {
		configOut = cfg.ConfigName
	}
	if cfg.KernelName != "" && !c.IsSet("kernel") {
		kernelOut = cfg.KernelName
	}
	if cfg.RamdiskName != "" && !c.IsSet("ramdisk") {
		ramdiskOut = cfg.RamdiskName
	}
	if cfg.SecondName != "" && !c.IsSet("second") {
		secondOut = cfg.SecondName
	}
}
