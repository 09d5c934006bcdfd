// Package document reads and writes the structured configuration files that
// describe phoneme databases, visemes and their associations. The format is
// chosen from the file extension; anything unrecognised is treated as JSON.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mouthshape/internal/loaderr"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for configuration documents.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf infers the format from a file name.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ParseFormat accepts json, toml, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown document format %q", s)
}

// Read decodes the document at path into v. A file that cannot be read
// (absent, a directory, no permission) yields ConfigMissing; a file that
// does not parse is ConfigMalformed.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loaderr.New(loaderr.ConfigMissing, path, "document not found", err)
		}
		return loaderr.New(loaderr.ConfigMissing, path, "document unreadable", err)
	}
	if err := Unmarshal(FormatOf(path), data, v); err != nil {
		return loaderr.New(loaderr.ConfigMalformed, path, "parse document", err)
	}
	return nil
}

// Unmarshal decodes data in the given format.
func Unmarshal(format Format, data []byte, v any) error {
	switch format {
	case TOML:
		return toml.Unmarshal(data, v)
	case YAML:
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	switch format {
	case TOML:
		return toml.Marshal(v)
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(v, "", " ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// Write encodes v in the format implied by path and writes it there.
func Write(path string, v any) error {
	out, err := Marshal(FormatOf(path), v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
