package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-while/go-pagefront/internal/config"
	"github.com/joho/godotenv"
)

// loadDotEnv loads path into the environment without overriding set variables.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the web configuration: defaults, config file,
// environment, then command-line flags.
func loadConfig(getenv func(string) string) (*config.MainConfig, error) {
	mainConfig := config.NewDefaultConfig()
	if configFile != "" {
		if err := mainConfig.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := mainConfig.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	applyFlags(mainConfig.Web)
	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}
	return mainConfig, nil
}

// applyFlags overrides config with command-line flags if provided
func applyFlags(webConfig *config.WebConfig) {
	if webport > 0 {
		webConfig.ListenPort = webport
	}
	if webssl {
		webConfig.SSL = true
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	if staticDir != "" {
		webConfig.StaticDir = staticDir
	}
	if templateDir != "" {
		webConfig.TemplateDir = templateDir
	}
	if withMetrics {
		webConfig.Metrics = true
	}
}
