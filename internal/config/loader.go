package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const catchConfigFile = "clamcatch.yaml"

// LoadCatch loads the Clam Catch configuration.
// Search order: customPath -> ~/.arcade/configs/clamcatch.yaml ->
// ./configs/clamcatch.yaml -> embedded default.
//
// Files are decoded on top of the defaults, so a partial file only
// overrides the keys it names. An unreadable or invalid customPath is an
// error; problems with the implicit locations fall through silently.
func LoadCatch(customPath string) (CatchConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultCatchConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := decodeCatch(data)
		if err != nil {
			return DefaultCatchConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(catchConfigFile),
		filepath.Join("configs", catchConfigFile),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decodeCatch(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := decodeCatch(defaultCatchYAML)
	if err != nil {
		return DefaultCatchConfig(), nil
	}
	return cfg, nil
}

// decodeCatch parses YAML over the hardcoded defaults and validates the result.
func decodeCatch(data []byte) (CatchConfig, error) {
	cfg := DefaultCatchConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyCatchPreset modifies the config based on a difficulty preset.
func ApplyCatchPreset(cfg *CatchConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// A wider clam on easy, a narrower one on hard
	switch preset {
	case DifficultyEasy:
		cfg.Avatar.Width += 2
	case DifficultyHard:
		cfg.Avatar.Width = max(cfg.Avatar.Width-2, 4)
	}
}
