// Package config provides configuration management for the Bug Ghost client.
//
// Settings come from three layers: built-in defaults, an optional YAML file
// (bugghost.yml in the working directory, else ~/.bugghost/config.yml) and
// environment variables, which may also be supplied through a .env file.
// Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	bugghost "bugghost-client"
)

// Environment variables
const (
	EnvAPIURL       = "BUGGHOST_API_URL"
	EnvTimeout      = "BUGGHOST_TIMEOUT"
	EnvCallbackAddr = "BUGGHOST_CALLBACK_ADDR"
)

const (
	ConfigFilename      = "bugghost.yml"
	DefaultCallbackAddr = "127.0.0.1:8765"
	userConfigDir       = ".bugghost"
	userConfigFilename  = "config.yml"
)

// Settings is the resolved client configuration
type Settings struct {
	APIURL       string        `yaml:"api_url"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	CallbackAddr string        `yaml:"callback_addr"`

	// Source is the config file that was read, or "" if none was found
	Source string `yaml:"-"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		APIURL:       bugghost.DefaultBaseURL,
		CallbackAddr: DefaultCallbackAddr,
	}
}

// ConfigPaths lists the config files consulted, in order of preference.
func ConfigPaths() []string {
	paths := []string{ConfigFilename}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, userConfigDir, userConfigFilename))
	}
	return paths
}

// Load resolves the settings from defaults, the first config file found and
// the environment.
func Load() (Settings, error) {
	godotenv.Load()
	return LoadFrom(ConfigPaths()...)
}

// LoadFrom is Load with an explicit list of candidate config files. The .env
// file is not read.
func LoadFrom(paths ...string) (Settings, error) {
	s := Defaults()

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("failed to read %s: %w", p, err)
		}

		var file fileSettings
		if err := yaml.Unmarshal(data, &file); err != nil {
			return s, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		if err := file.apply(&s); err != nil {
			return s, fmt.Errorf("invalid %s: %w", p, err)
		}
		s.Source = p
		break
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv(EnvCallbackAddr); v != "" {
		s.CallbackAddr = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		s.Timeout = d
	}

	s.APIURL = strings.TrimRight(s.APIURL, "/")
	return s, nil
}

// Save writes s to path as YAML.
func Save(path string, s Settings) error {
	file := fileSettings{APIURL: s.APIURL, CallbackAddr: s.CallbackAddr}
	if s.Timeout > 0 {
		file.Timeout = s.Timeout.String()
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// fileSettings is the on-disk form. Timeout is a duration string like "30s".
type fileSettings struct {
	APIURL       string `yaml:"api_url,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
	CallbackAddr string `yaml:"callback_addr,omitempty"`
}

func (f fileSettings) apply(s *Settings) error {
	if f.APIURL != "" {
		s.APIURL = f.APIURL
	}
	if f.CallbackAddr != "" {
		s.CallbackAddr = f.CallbackAddr
	}
	if f.Timeout != "" {
		d, err := parseTimeout(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		s.Timeout = d
	}
	return nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative timeout %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %s", v)
	}
	return d, nil
}
