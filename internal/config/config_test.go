package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvOverrides(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}

	t.Setenv("MOUTHSHAPE_PHONEME_DB", "/data/phonemes.yaml")
	t.Setenv("MOUTHSHAPE_VISEME_CONFIG", "/data/visemes.json")
	t.Setenv("MOUTHSHAPE_LOG_LEVEL", "debug")
	t.Setenv("MOUTHSHAPE_LOG_FORMAT", "json")
	t.Setenv("MOUTHSHAPE_LOG_STDERR", "1")
	t.Setenv("MOUTHSHAPE_FPS", "30")

	applyEnvOverrides(cfg)

	if cfg.Phonemes.Database != "/data/phonemes.yaml" || cfg.Visemes.Config != "/data/visemes.json" {
		t.Fatalf("path overrides failed: %+v %+v", cfg.Phonemes, cfg.Visemes)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || !cfg.Logging.Stderr {
		t.Fatalf("logging overrides failed: %+v", cfg.Logging)
	}
	if cfg.Animation.FrameRate != 30 {
		t.Fatalf("fps override failed: %d", cfg.Animation.FrameRate)
	}
}

func TestBadFPSOverrideIgnored(t *testing.T) {
	cfg, _ := Default()
	t.Setenv("MOUTHSHAPE_FPS", "fast")
	applyEnvOverrides(cfg)
	if cfg.Animation.FrameRate != defaultFrameRate {
		t.Fatalf("fps = %d", cfg.Animation.FrameRate)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Phonemes.Database = "db/phonemes.toml"
	cfg.Animation.FrameRate = 24

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Phonemes.Database != "db/phonemes.toml" || loaded.Animation.FrameRate != 24 {
		t.Fatalf("values did not persist: %+v", loaded)
	}
	if loaded.Paths.ConfigPath != path {
		t.Fatalf("config path = %q", loaded.Paths.ConfigPath)
	}
}

func TestLoadWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.Phonemes.Database != defaultPhonemeDB {
		t.Fatalf("database = %q", cfg.Phonemes.Database)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("phonemes = ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveAndFrameInterval(t *testing.T) {
	cfg, _ := Default()
	cfg.Paths.ConfigPath = "/etc/mouthshape/config.toml"
	if got := cfg.Resolve("Phonemes/phonemes.json"); got != "/etc/mouthshape/Phonemes/phonemes.json" {
		t.Fatalf("resolve = %q", got)
	}
	if got := cfg.Resolve("/abs/x.json"); got != "/abs/x.json" {
		t.Fatalf("resolve abs = %q", got)
	}
	cfg.Animation.FrameRate = 50
	if cfg.FrameInterval() != 20*time.Millisecond {
		t.Fatalf("interval = %v", cfg.FrameInterval())
	}
	cfg.Animation.FrameRate = 0
	if cfg.FrameInterval() != time.Second/defaultFrameRate {
		t.Fatalf("default interval = %v", cfg.FrameInterval())
	}
}

func TestLoadReadsStderrMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nstderr = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOUTHSHAPE_LOG_STDERR", "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Logging.Stderr {
		t.Fatalf("stderr mirror not enabled: %+v", cfg.Logging)
	}
}
