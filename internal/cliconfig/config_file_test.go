package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/mtdblock3"
efuse_image = "/var/lib/wincloner/efuse.bin"
pll_offset = 8192
watch_debounce = "250ms"
progress = false
`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "/dev/mtdblock3" {
		t.Fatalf("device: got %q", cfg.Device)
	}
	if cfg.EfuseImage != "/var/lib/wincloner/efuse.bin" {
		t.Fatalf("efuse: got %q", cfg.EfuseImage)
	}
	if cfg.PLLOffset != 8192 {
		t.Fatalf("pll offset: got %d", cfg.PLLOffset)
	}
	if cfg.PLLSize != 0x1000 {
		t.Fatalf("pll size should keep default: got %#x", cfg.PLLSize)
	}
	if cfg.WatchDebounce != 250*time.Millisecond {
		t.Fatalf("debounce: got %v", cfg.WatchDebounce)
	}
	if cfg.Progress {
		t.Fatal("progress should be disabled")
	}
}

func TestFileConfigRespectsChangedFlags(t *testing.T) {
	path := writeConfig(t, `device = "/dev/from-file"`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Device = "/dev/from-flag"
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"device": true}); err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "/dev/from-flag" {
		t.Fatalf("flag must win over file: got %q", cfg.Device)
	}
}

func TestLoadFileConfigBadTOML(t *testing.T) {
	path := writeConfig(t, `device = [not toml`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfig(t, "")
	if !FileExists(path) {
		t.Fatal("expected file to exist")
	}
	if FileExists(filepath.Join(t.TempDir(), "nope.toml")) {
		t.Fatal("expected missing file")
	}
}
