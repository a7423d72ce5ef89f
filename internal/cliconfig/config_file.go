package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and hex-friendly
// strings for flash addresses to make TOML friendly.
type FileConfig struct {
	Device        string `toml:"device"`
	EfuseImage    string `toml:"efuse_image"`
	PLLOffset     int64  `toml:"pll_offset"`
	PLLSize       int64  `toml:"pll_size"`
	WatchDebounce string `toml:"watch_debounce"`
	Progress      *bool  `toml:"progress"`
	Verbose       *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.wincloner/config.toml, if the home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".wincloner", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", fc.Device, &cfg.Device)
	s.setString("efuse", fc.EfuseImage, &cfg.EfuseImage)
	s.setInt64("pll-offset", fc.PLLOffset, &cfg.PLLOffset)
	s.setInt64("pll-size", fc.PLLSize, &cfg.PLLSize)
	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}
	s.setBool("progress", fc.Progress, &cfg.Progress)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
