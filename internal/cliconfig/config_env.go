package cliconfig

import "os"

// ApplyEnvConfig applies WINCLONER_* environment variables to the Config.
// Environment values override file config but are overridden by explicitly
// set flags (checked via the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", os.Getenv("WINCLONER_DEVICE"), &cfg.Device)
	s.setString("efuse", os.Getenv("WINCLONER_EFUSE"), &cfg.EfuseImage)

	if err := s.setInt64FromString("pll-offset", os.Getenv("WINCLONER_PLL_OFFSET"), &cfg.PLLOffset); err != nil {
		return err
	}
	if err := s.setInt64FromString("pll-size", os.Getenv("WINCLONER_PLL_SIZE"), &cfg.PLLSize); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", os.Getenv("WINCLONER_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setBoolFromString("progress", os.Getenv("WINCLONER_PROGRESS"), &cfg.Progress)
	s.setBoolFromString("verbose", os.Getenv("WINCLONER_VERBOSE"), &cfg.Verbose)

	return nil
}
