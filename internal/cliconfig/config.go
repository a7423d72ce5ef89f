package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/klatu-labs/wincloner/internal/cloner"
	"github.com/klatu-labs/wincloner/internal/domain"
)

// Config holds CLI configuration for wincloner.
type Config struct {
	// Device is the flash medium: a raw image file or a block device node.
	Device string

	// EfuseImage is the captured e-fuse bank image supplying calibration.
	// Only required by rebuild-pll.
	EfuseImage string

	// PLLOffset / PLLSize describe the protected PLL/gain table region.
	PLLOffset int64
	PLLSize   int64

	// WatchDebounce coalesces filesystem events before re-running update
	// in watch mode.
	WatchDebounce time.Duration

	// Progress enables the per-sector symbol stream on stderr.
	Progress bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		PLLOffset:     cloner.DefaultProtectedRegion.Offset,
		PLLSize:       cloner.DefaultProtectedRegion.Size,
		WatchDebounce: 500 * time.Millisecond,
		Progress:      true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device is required")
	}
	if c.PLLOffset%cloner.SectorSize != 0 {
		return fmt.Errorf("pll offset 0x%x is not sector-aligned", c.PLLOffset)
	}
	if c.PLLSize <= 0 {
		return fmt.Errorf("pll size must be positive")
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	return nil
}

// ProtectedRegion returns the configured protected region.
func (c *Config) ProtectedRegion() domain.Region {
	return domain.Region{Offset: c.PLLOffset, Size: c.PLLSize}
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets an int64 value if positive and flag not changed.
// Zero means "not set in the file"; the default carries.
func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setInt64FromString parses a string (decimal or 0x-prefixed hex) to int64.
// Used for environment variables that come as strings.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	v, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if v <= 0 {
		return nil
	}
	*dst = v
	return nil
}

// setBoolFromString parses a string to bool. Accepts "true", "1" as true,
// anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
