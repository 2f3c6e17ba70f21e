package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameConfig `toml:"game"`
	Log  LogConfig  `toml:"log"`
}

// GameConfig maps gameplay settings. Durations are in seconds.
type GameConfig struct {
	Width      *int     `toml:"width"`
	Height     *int     `toml:"height"`
	FPS        *int     `toml:"fps"`
	AppearTime *float64 `toml:"appear-time"`
	MaxRadius  *float64 `toml:"max-radius"`
	Rings      *int     `toml:"rings"`
	Countdown  *float64 `toml:"countdown"`
	Sound      *bool    `toml:"sound"`
	Seed       *int64   `toml:"seed"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values present in the file onto s.
func (f FileConfig) Apply(s Settings) Settings {
	g := f.Game
	if g.Width != nil {
		s.Width = *g.Width
	}
	if g.Height != nil {
		s.Height = *g.Height
	}
	if g.FPS != nil {
		s.FrameRate = *g.FPS
	}
	if g.AppearTime != nil {
		s.AppearDuration = seconds(*g.AppearTime)
	}
	if g.MaxRadius != nil {
		s.MaxRadius = *g.MaxRadius
	}
	if g.Rings != nil {
		s.Rings = *g.Rings
	}
	if g.Countdown != nil {
		s.Countdown = seconds(*g.Countdown)
	}
	if g.Sound != nil {
		s.Sound = *g.Sound
	}
	if g.Seed != nil {
		s.Seed = uint64(*g.Seed)
	}
	if f.Log.Level != nil {
		s.LogLevel = *f.Log.Level
	}
	return s
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/reflex/config.toml.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", "reflex.toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "reflex", "config.toml")
}

// DefaultTemplate returns a commented config file listing every key with its
// default value. CLI flags override config values.
func DefaultTemplate() string {
	d := Default()
	return fmt.Sprintf(`# reflex configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# width = %d
# height = %d
# fps = %d
# appear-time = %.2f
# max-radius = %.1f
# rings = %d
# countdown = %.1f
# sound = false
# seed = 0

[log]
# level = %q
`, d.Width, d.Height, d.FrameRate, d.AppearDuration.Seconds(), d.MaxRadius, d.Rings, d.Countdown.Seconds(), d.LogLevel)
}
