package main

import (
	"fmt"

	"mouthshape/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	fmt.Printf("config=%s\n", cfg.Paths.ConfigPath)
	fmt.Printf("phonemes.database=%q -> %s\n", cfg.Phonemes.Database, cfg.Resolve(cfg.Phonemes.Database))
	fmt.Printf("visemes.config=%q -> %s\n", cfg.Visemes.Config, cfg.Resolve(cfg.Visemes.Config))
	fmt.Printf("animation.frame_rate=%d frame=%s hold=%.2fs\n", cfg.Animation.FrameRate, cfg.FrameInterval(), cfg.Animation.HoldSec)
	fmt.Printf("logging level=%s format=%s stderr=%v path=%s\n", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Stderr, cfg.Paths.LogPath)
}
