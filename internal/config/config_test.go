package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs so
// LoadCatch only sees what the test writes.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := LoadCatch("")
	if err != nil {
		t.Fatalf("LoadCatch() failed: %v", err)
	}
	if cfg != DefaultCatchConfig() {
		t.Errorf("embedded YAML and DefaultCatchConfig differ:\n%+v\n%+v", cfg, DefaultCatchConfig())
	}
}

func TestLoadCatchCustomPathPartialOverride(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "spawn:\n  interval_ms: 250\n  mode: onscreen\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCatch(path)
	if err != nil {
		t.Fatalf("LoadCatch(custom) failed: %v", err)
	}
	if cfg.Spawn.IntervalMS != 250 || cfg.Spawn.Mode != SpawnOnScreen {
		t.Errorf("custom values not applied: %+v", cfg.Spawn)
	}
	if cfg.Avatar.Width != DefaultCatchConfig().Avatar.Width {
		t.Errorf("unset keys should keep defaults, avatar width = %d", cfg.Avatar.Width)
	}
}

func TestLoadCatchCustomPathErrors(t *testing.T) {
	isolate(t)

	if _, err := LoadCatch(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("spawn:\n  mode: sideways\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadCatch(bad)
	if err == nil || !strings.Contains(err.Error(), "sideways") {
		t.Errorf("invalid spawn mode should be reported, got %v", err)
	}
}

func TestLoadCatchSearchOrder(t *testing.T) {
	home, work := isolate(t)

	local := filepath.Join(work, "configs")
	if err := os.MkdirAll(local, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(local, catchConfigFile), []byte("avatar:\n  width: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCatch("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Avatar.Width != 5 {
		t.Errorf("local config should be used, width = %d", cfg.Avatar.Width)
	}

	user := filepath.Join(home, ".arcade", "configs")
	if err := os.MkdirAll(user, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(user, catchConfigFile), []byte("avatar:\n  width: 11\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadCatch("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Avatar.Width != 11 {
		t.Errorf("user config should win over local config, width = %d", cfg.Avatar.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CatchConfig)
		ok     bool
	}{
		{"defaults", func(*CatchConfig) {}, true},
		{"onscreen ignores offscreen range", func(c *CatchConfig) {
			c.Spawn.Mode = SpawnOnScreen
			c.Spawn.OffscreenMax = -1
		}, true},
		{"zero interval", func(c *CatchConfig) { c.Spawn.IntervalMS = 0 }, false},
		{"inverted speed range", func(c *CatchConfig) { c.Spawn.MinFallSpeed = 9 }, false},
		{"inverted offscreen range", func(c *CatchConfig) { c.Spawn.OffscreenMin = 10 }, false},
		{"zero avatar width", func(c *CatchConfig) { c.Avatar.Width = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultCatchConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestApplyCatchPreset(t *testing.T) {
	cfg := DefaultCatchConfig()
	ApplyCatchPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultCatchConfig()
	ApplyCatchPreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset initial level = %v", cfg.Difficulty.InitialLevel)
	}
	if cfg.Avatar.Width >= DefaultCatchConfig().Avatar.Width {
		t.Error("hard preset should narrow the clam")
	}

	cfg = DefaultCatchConfig()
	ApplyCatchPreset(&cfg, "")
	if cfg != DefaultCatchConfig() {
		t.Error("empty preset should leave the config untouched")
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("ParsePreset(hard) should be DifficultyHard")
	}
	if ParsePreset("brutal") != "" {
		t.Error("unknown presets should map to empty")
	}
}

func TestSpawnInterval(t *testing.T) {
	cfg := DefaultCatchConfig().Difficulty
	base := time.Second

	d := NewDifficultyManager(cfg)
	if got := d.SpawnInterval(base, 0, 0); got != base {
		t.Errorf("interval at score 0 = %v, expected %v", got, base)
	}
	if got := d.SpawnInterval(base, cfg.Progression.MaxAt/2, 0); got != 750*time.Millisecond {
		t.Errorf("interval at half progression = %v, expected 750ms", got)
	}
	if got := d.SpawnInterval(base, cfg.Progression.MaxAt*10, 0); got != 500*time.Millisecond {
		t.Errorf("interval past max = %v, expected 500ms", got)
	}

	cfg.Scaling.IntervalReductionMS = 5000
	d = NewDifficultyManager(cfg)
	if got := d.SpawnInterval(base, cfg.Progression.MaxAt, 0); got != 350*time.Millisecond {
		t.Errorf("interval should stop at the floor, got %v", got)
	}

	cfg.Enabled = false
	d = NewDifficultyManager(cfg)
	if got := d.SpawnInterval(base, 1000, 0); got != base {
		t.Errorf("disabled progression should keep the base interval, got %v", got)
	}
}

func TestDifficultyLevelTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
	})

	if got := d.Level(999, 0); got != 0.5 {
		t.Errorf("time progression should ignore score, level = %v", got)
	}
	if got := d.Level(0, 50); got != 0.75 {
		t.Errorf("level at half time = %v, expected 0.75", got)
	}
	if got := d.Level(0, 1000); got != 1.0 {
		t.Errorf("level should cap at 1.0, got %v", got)
	}
}
