// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON names the environment variable holding a JSON config overlay.
	EnvConfigJSON = "GOMENU_ADMIN_CONFIG_JSON"

	// DefaultSettingsCapability gates plugin settings pages unless configured otherwise.
	DefaultSettingsCapability = "manage_options"

	defaultLanguage      = "en-US"
	defaultShutDownTime  = 5
	defaultSessionExpiry = 24 * time.Hour
)

// ReservedMenuBases are the first path segments served by the application itself.
// A menu archive mounted on one of them would never be reached.
var ReservedMenuBases = []string{"admin", "dashboard", "login", "logout", "metrics", "checkalive", "static"}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)
	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config from "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// PluginBySlug returns the configured plugin with the given slug.
func (c *Config) PluginBySlug(slug string) (Plugin, bool) {
	for _, p := range c.Plugins {
		if p.Slug == slug {
			return p, true
		}
	}

	return Plugin{}, false
}

// validate checks the settings needed to start and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "", "sqlite", "mysql", "postgres":
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = "sqlite"
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Language == "" {
		c.Language = defaultLanguage
	}

	return validatePlugins(c.Plugins)
}

// validatePlugins checks every plugin definition at load time.
func validatePlugins(plugins []Plugin) error {
	v := validator.New()
	seen := make(map[string]bool, len(plugins)*3) //nolint:mnd

	for i := range plugins {
		p := &plugins[i]

		if err := v.Struct(p); err != nil {
			return errors.Wrapf(err, "invalid plugin definition %q", p.Slug)
		}

		if slices.Contains(ReservedMenuBases, strings.ToLower(p.MenuBase)) {
			return errors.Wrap(ErrReservedMenuBase, p.MenuBase)
		}

		if p.SettingsCapability == "" {
			p.SettingsCapability = DefaultSettingsCapability
		}

		for _, key := range []string{"slug:" + p.Slug, "type:" + p.PostType, "base:" + p.MenuBase} {
			if seen[key] {
				return errors.Wrap(ErrDuplicatePlugin, key)
			}

			seen[key] = true
		}
	}

	return nil
}
