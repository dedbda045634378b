// Package config loads the optional crosspost configuration file. The tool
// is zero-config by default; the file exists because the target platforms'
// UI markers and selectors are an uncontrolled, mutable contract, and when
// they drift the fix should be data in ~/.crosspost/config.yaml rather than
// a rebuild.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvProfileDir overrides the browser profile directory.
	EnvProfileDir = "CROSSPOST_PROFILE_DIR"

	// DefaultControlPort is the preferred Chrome remote-debugging port.
	DefaultControlPort = 9222
)

// Platform holds per-platform overrides. Empty fields keep the built-in
// defaults; non-empty candidate lists replace the built-in chain wholesale.
type Platform struct {
	// EntryURL is the publish entry point.
	EntryURL string `yaml:"entry_url"`

	// ModeSwitchURL forces image/text publishing mode via navigation.
	ModeSwitchURL string `yaml:"mode_switch_url"`

	// LoginURLGlobs are glob patterns marking login-path URLs.
	LoginURLGlobs []string `yaml:"login_url_globs"`

	// LoginPrompt is a selector marking an in-page login prompt.
	LoginPrompt string `yaml:"login_prompt"`

	// VideoModeURL is a URL fragment marking the wrong (video) mode.
	VideoModeURL string `yaml:"video_mode_url"`

	// VideoModeText is a page-content marker for the wrong mode.
	VideoModeText string `yaml:"video_mode_text"`

	// ImageModeReady is a selector confirming image/text mode.
	ImageModeReady string `yaml:"image_mode_ready"`

	// UploadProgress is a selector matching the upload progress marker.
	UploadProgress string `yaml:"upload_progress"`

	// FormReady is a selector that appears once the post-upload form has
	// rendered.
	FormReady string `yaml:"form_ready"`

	// Selectors maps a logical role ("title-input", "submit-button") to a
	// replacement candidate selector list, tried in order.
	Selectors map[string][]string `yaml:"selectors"`
}

// Config is the top-level configuration file shape.
type Config struct {
	// ProfileDir is the browser profile directory. Resolution order:
	// this field, then $CROSSPOST_PROFILE_DIR, then
	// ~/.crosspost/chrome-profile.
	ProfileDir string `yaml:"profile_dir"`

	// ControlPort is the preferred remote-debugging port.
	ControlPort int `yaml:"control_port"`

	// Platforms holds per-platform overrides keyed by platform name
	// ("rednote", "x").
	Platforms map[string]Platform `yaml:"platforms"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".crosspost", "config.yaml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error: all defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := &Config{ControlPort: DefaultControlPort}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.ControlPort == 0 {
		cfg.ControlPort = DefaultControlPort
	}

	return cfg, nil
}

// Platform returns the override block for a platform name, or a zero value
// when none is configured.
func (c *Config) Platform(name string) Platform {
	if c.Platforms == nil {
		return Platform{}
	}
	return c.Platforms[name]
}

// ResolveProfileDir resolves the browser profile directory and creates it
// if absent. A dedicated directory is always used, never the user's default
// browser profile, so automation cannot clobber real browsing state. The
// directory persists across runs; the cookies it accumulates are what lets
// repeated runs skip re-authentication.
func (c *Config) ResolveProfileDir() (string, error) {
	dir := c.ProfileDir
	if dir == "" {
		dir = os.Getenv(EnvProfileDir)
	}
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".crosspost", "chrome-profile")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create profile directory %s: %w", dir, err)
	}

	return dir, nil
}
