package doctor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mouthshape/internal/config"
	"mouthshape/internal/document"
	"mouthshape/internal/loaderr"
	"mouthshape/internal/phoneme"
	"mouthshape/internal/viseme"
)

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Run executes doctor checks.
func Run(cfg *config.Config) []Result {
	results := []Result{
		checkFile("config path", cfg.Paths.ConfigPath),
		checkDir("state dir", cfg.Paths.StateDir),
	}
	dbPath := cfg.Resolve(cfg.Phonemes.Database)
	results = append(results, checkWaveforms(dbPath)...)
	store, res := checkPhonemes(dbPath)
	results = append(results, res)

	visemePath := cfg.Resolve(cfg.Visemes.Config)
	results = append(results, checkVisemeFiles(visemePath)...)
	results = append(results, checkMesh(visemePath, store))
	return results
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	info, err := os.Stat(os.ExpandEnv(path))
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	if info.IsDir() {
		return Result{Name: label, Pass: false, Detail: path + " is a directory"}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkDir(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	if !info.IsDir() {
		return Result{Name: label, Pass: false, Detail: path + " is not a directory"}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

// checkWaveforms stats every waveform the database names. Only the
// database document itself is reported when it cannot be read.
func checkWaveforms(dbPath string) []Result {
	var db phoneme.Database
	if err := document.Read(dbPath, &db); err != nil {
		return []Result{{Name: "phoneme db", Pass: false, Detail: describe(err)}}
	}
	root := filepath.Dir(dbPath)
	results := []Result{{Name: "phoneme db", Pass: true, Detail: dbPath}}
	for _, e := range db.Phonemes {
		results = append(results, checkFile("waveform "+e.Symbol, filepath.Join(root, e.FilePath)))
	}
	return results
}

func checkPhonemes(dbPath string) (*phoneme.Store, Result) {
	label := "fingerprints"
	store, err := phoneme.Load(dbPath, nil)
	if err != nil {
		return nil, Result{Name: label, Pass: false, Detail: describe(err)}
	}
	if !store.IsReady() {
		return store, Result{Name: label, Pass: false, Detail: "database empty or not loaded"}
	}
	return store, Result{Name: label, Pass: true,
		Detail: fmt.Sprintf("%d phonemes, %d target frequencies", store.Len(), len(store.TargetFrequencies()))}
}

func checkVisemeFiles(path string) []Result {
	var doc viseme.Document
	if err := document.Read(path, &doc); err != nil {
		return []Result{{Name: "viseme config", Pass: false, Detail: describe(err)}}
	}
	root := filepath.Dir(path)
	results := []Result{{Name: "viseme config", Pass: true, Detail: path}}
	for _, e := range doc.Visemes {
		results = append(results, checkFile("viseme "+e.Symbol, filepath.Join(root, e.FilePath)))
	}
	return results
}

func checkMesh(path string, store *phoneme.Store) Result {
	label := "visemes"
	var phonemes viseme.PhonemeSet
	if store != nil {
		phonemes = store
	}
	mesh, err := viseme.Load(path, phonemes, nil)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: describe(err)}
	}
	if !mesh.IsReady() {
		return Result{Name: label, Pass: false, Detail: "no visemes or associations loaded"}
	}
	return Result{Name: label, Pass: true,
		Detail: fmt.Sprintf("%d visemes, %d associations", len(mesh.Visemes()), len(mesh.Associations()))}
}

// describe reports a failure with its load error kind when there is one.
func describe(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return "not found"
	}
	if kind, ok := loaderr.KindOf(err); ok {
		return fmt.Sprintf("[%s] %v", kind, err)
	}
	return err.Error()
}
