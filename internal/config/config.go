// Package config provides configuration management for go-pagefront.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var AppVersion = "-unset-" // will be set at build time

const (
	DefaultListenPort      = 8080
	DefaultShutdownTimeout = 10 * time.Second

	// AccessLog formats
	AccessLogApache = "apache"
	AccessLogJSON   = "json"
	AccessLogOff    = "off"
)

// MainConfig holds the main configuration for go-pagefront
type MainConfig struct {
	// Web interface settings
	Web *WebConfig `yaml:"web"`
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort     int      `yaml:"listen_port"`
	SSL            bool     `yaml:"ssl"`
	CertFile       string   `yaml:"cert_file,omitempty"`
	KeyFile        string   `yaml:"key_file,omitempty"`
	StaticDir      string   `yaml:"static_dir"`   // empty: serve the embedded assets
	TemplateDir    string   `yaml:"template_dir"` // empty: use the embedded templates
	Metrics        bool     `yaml:"metrics"`      // expose /metrics
	LogLevel       string   `yaml:"log_level"`
	AccessLog      string   `yaml:"access_log"` // apache, json or off
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		Web: &WebConfig{
			ListenPort:     DefaultListenPort,
			SSL:            false,
			LogLevel:       "info",
			AccessLog:      AccessLogJSON,
			TrustedProxies: []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		},
	}
}

// LoadFile merges the YAML file at path over the current values.
// Unknown keys are rejected so typos do not go unnoticed.
func (c *MainConfig) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file keeps defaults
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies overrides from the process environment.
// PORT is set by most managed platforms and wins over the config file.
func (c *MainConfig) ApplyEnv(getenv func(string) string) error {
	if portEnv := getenv("PORT"); portEnv != "" {
		p, err := strconv.Atoi(portEnv)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", portEnv, err)
		}
		c.Web.ListenPort = p
	}
	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		c.Web.LogLevel = lvl
	}
	return nil
}

// Validate checks the web configuration for values the server cannot start with.
func (c *MainConfig) Validate() error {
	w := c.Web
	if w == nil {
		return errors.New("missing web config")
	}
	if w.ListenPort < 1 || w.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", w.ListenPort)
	}
	if w.SSL && (w.CertFile == "" || w.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	switch w.AccessLog {
	case AccessLogApache, AccessLogJSON, AccessLogOff:
	default:
		return fmt.Errorf("invalid access_log %q (apache, json or off)", w.AccessLog)
	}
	return nil
}
