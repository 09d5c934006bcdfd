package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultPhonemeDB     = "Phonemes/phonemes.json"
	defaultVisemeConfig  = "Visemes/visemes.json"
	defaultFrameRate     = 60
	defaultPeakCount     = 8
	defaultStateDirLinux = ".local/state/mouthshape"
	defaultConfigDir     = ".config/mouthshape"
	defaultHoldSec       = 0.5
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Phonemes struct {
		Database string `toml:"database"` // phoneme database document
	} `toml:"phonemes"`

	Visemes struct {
		Config string `toml:"config"` // viseme/association document
	} `toml:"visemes"`

	Animation struct {
		FrameRate int `toml:"frame_rate"`
		// HoldSec is how long the animate command holds each phoneme after
		// its transition has finished.
		HoldSec float64 `toml:"hold_sec"`
	} `toml:"animation"`

	Analyze struct {
		Peaks int `toml:"peaks"`
	} `toml:"analyze"`

	Export struct {
		Format string `toml:"format"` // json, toml, yaml
	} `toml:"export"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stderr bool   `toml:"stderr"` // mirror log lines to stderr
	} `toml:"logging"`

	Paths struct {
		StateDir   string `toml:"state_dir"`
		LogPath    string `toml:"log_path"`
		ConfigPath string `toml:"-"`
	} `toml:"paths"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "mouthshape")
	}

	cfg := &Config{}

	cfg.Phonemes.Database = defaultPhonemeDB
	cfg.Visemes.Config = defaultVisemeConfig

	cfg.Animation.FrameRate = defaultFrameRate
	cfg.Animation.HoldSec = defaultHoldSec

	cfg.Analyze.Peaks = defaultPeakCount

	cfg.Export.Format = "json"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Logging.Stderr = false

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "mouthshape.log")

	return cfg, nil
}

// Load loads config from file, applying defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// Resolve returns p unchanged when absolute, otherwise relative to the
// directory holding the config file (or the working directory when the
// config has no path).
func (c *Config) Resolve(p string) string {
	p = os.ExpandEnv(p)
	if p == "" || filepath.IsAbs(p) || c.Paths.ConfigPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Paths.ConfigPath), p)
}

// FrameInterval is the simulated time between animation frames.
func (c *Config) FrameInterval() time.Duration {
	fps := c.Animation.FrameRate
	if fps <= 0 {
		fps = defaultFrameRate
	}
	return time.Second / time.Duration(fps)
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MOUTHSHAPE_PHONEME_DB"); v != "" {
		cfg.Phonemes.Database = v
	}
	if v := os.Getenv("MOUTHSHAPE_VISEME_CONFIG"); v != "" {
		cfg.Visemes.Config = v
	}
	if v := os.Getenv("MOUTHSHAPE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MOUTHSHAPE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MOUTHSHAPE_LOG_STDERR"); v != "" {
		cfg.Logging.Stderr = v != "0" && strings.ToLower(v) != "false"
	}
	if v := os.Getenv("MOUTHSHAPE_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil && fps > 0 {
			cfg.Animation.FrameRate = fps
		}
	}
}
