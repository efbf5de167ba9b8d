// Package config provides the startup configuration for the dev file server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the TCP port the server listens on when no override file sets one.
const DefaultPort = 8080

// DefaultAppName is the application name shown in the startup banner.
const DefaultAppName = "Seasonal Feeding Calculator & Schedule"

// FileNames lists the override files Load looks for in the root directory, in order.
// The first one that exists wins; the rest are ignored.
var FileNames = []string{"devserver.toml", "devserver.yaml", "devserver.yml"}

// Config holds the values the server reads once at startup.
// It is passed by value into the server and never mutated afterwards.
type Config struct {
	// Port is the TCP port to listen on. The listener binds all local interfaces.
	Port int `toml:"port" yaml:"port"`
	// Root is the directory served over HTTP. It is always the directory containing
	// the executable and cannot be overridden from a file.
	Root string `toml:"-" yaml:"-"`
	// AppName is printed in the banner.
	AppName string `toml:"app_name" yaml:"app_name"`
	// Watch enables logging of file changes under Root.
	Watch bool `toml:"watch" yaml:"watch"`
	// LogLevel is a logrus level name (e.g., "info", "debug").
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the built-in configuration for the given root directory.
func Default(root string) Config {
	return Config{
		Port:     DefaultPort,
		Root:     root,
		AppName:  DefaultAppName,
		LogLevel: "info",
	}
}

// Addr returns the listen address, bound to all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate reports whether the configuration can be used to start the server.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Root == "" {
		return errors.New("root directory is empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// ExecutableDir returns the directory containing the running program, with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Load builds the configuration for root, applying the first override file found there.
//
// Fields missing from the file keep their defaults. A file that exists but cannot be
// parsed is an error, as is a configuration that fails Validate.
func Load(root string) (Config, error) {
	cfg := Default(root)

	for _, name := range FileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", name, err)
		}

		if filepath.Ext(name) == ".toml" {
			err = toml.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", name, err)
		}
		break
	}

	// The served directory is fixed to the executable's location.
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
