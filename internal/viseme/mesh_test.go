package viseme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mouthshape/internal/loaderr"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func fixture(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Silence.viseme"), `{"Vertices": [{"x": 0, "y": 0}, {"x": 1, "y": 0}]}`)
	writeFile(t, filepath.Join(dir, "Open.viseme"), `{"Vertices": [{"x": 0, "y": 1}, {"x": 1, "y": 1}]}`)
	path := filepath.Join(dir, "visemes.json")
	writeFile(t, path, config)
	return path
}

const fullConfig = `{
 "visemes": [
  {"symbol": "default", "file_path": "Silence.viseme"},
  {"symbol": "open", "file_path": "Open.viseme"}
 ],
 "phoneme_associations": [{"phoneme_symbol": "a", "viseme_symbol": "open"}],
 "animation_settings": {"state_transition_time": 0.1}
}`

func TestLoadDefaultAndOpen(t *testing.T) {
	path := fixture(t, fullConfig)
	mesh, err := Load(path, symbols{"a": true}, nil)
	require.NoError(t, err)

	assert.True(t, mesh.IsReady())
	assert.Equal(t, filepath.Dir(path), mesh.RootDir())
	assert.Equal(t, 100*time.Millisecond, mesh.TransitionTime())
	assert.Equal(t, map[string]string{"a": "open"}, mesh.Associations())
	assert.Len(t, mesh.Visemes(), 2)

	v, ok := mesh.VisemeFor("a")
	require.True(t, ok)
	assert.Equal(t, "open", v.Symbol)
	assert.Equal(t, []mgl64.Vec2{{0, 1}, {1, 1}}, v.Vertices)

	d := mesh.Display()
	require.NotNil(t, d)
	assert.Equal(t, "default", d.Target())

	assert.False(t, mesh.ShowPhoneme("zz"))
	assert.True(t, mesh.ShowPhoneme("a"))
	d.Advance(time.Second)
	assert.Equal(t, v.Vertices, d.Vertices())
}

func TestLoadMissingConfigIsSilent(t *testing.T) {
	mesh, err := Load(filepath.Join(t.TempDir(), "none.json"), symbols{}, nil)
	require.NoError(t, err)
	assert.False(t, mesh.IsReady())
	assert.Nil(t, mesh.Display())
	assert.False(t, mesh.ShowPhoneme("a"))
	assert.Equal(t, DefaultTransitionTime, mesh.TransitionTime())
}

func TestLoadUnreadableConfigIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visemes.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	mesh, err := Load(path, symbols{"a": true}, nil)
	require.NoError(t, err)
	require.NotNil(t, mesh)
	assert.False(t, mesh.IsReady())
	assert.Nil(t, mesh.Display())
}

func TestLoadUnreadableVisemeFileIsFatal(t *testing.T) {
	path := fixture(t, `{"visemes": [{"symbol": "default", "file_path": "shapes"}]}`)
	require.NoError(t, os.Mkdir(filepath.Join(filepath.Dir(path), "shapes"), 0o755))
	_, err := Load(path, symbols{}, nil)
	require.Error(t, err)
}

func TestLoadWithoutDefaultFails(t *testing.T) {
	path := fixture(t, `{"visemes": [{"symbol": "open", "file_path": "Open.viseme"}]}`)
	_, err := Load(path, symbols{"a": true}, nil)
	require.ErrorIs(t, err, loaderr.MissingDefaultViseme)

	empty := fixture(t, `{}`)
	_, err = Load(empty, symbols{}, nil)
	require.ErrorIs(t, err, loaderr.MissingDefaultViseme)
}

func TestLoadDanglingAssociations(t *testing.T) {
	unknownPhoneme := fixture(t, `{
 "visemes": [{"symbol": "default", "file_path": "Silence.viseme"}],
 "phoneme_associations": [{"phoneme_symbol": "a", "viseme_symbol": "default"}]}`)
	_, err := Load(unknownPhoneme, symbols{}, nil)
	require.ErrorIs(t, err, loaderr.UnknownPhoneme)

	unknownViseme := fixture(t, `{
 "visemes": [{"symbol": "default", "file_path": "Silence.viseme"}],
 "phoneme_associations": [{"phoneme_symbol": "a", "viseme_symbol": "open"}]}`)
	_, err = Load(unknownViseme, symbols{"a": true}, nil)
	require.ErrorIs(t, err, loaderr.UnknownViseme)

	dup := fixture(t, `{
 "visemes": [{"symbol": "default", "file_path": "Silence.viseme"}],
 "phoneme_associations": [
  {"phoneme_symbol": "a", "viseme_symbol": "default"},
  {"phoneme_symbol": "a", "viseme_symbol": "default"}]}`)
	_, err = Load(dup, symbols{"a": true}, nil)
	require.ErrorIs(t, err, loaderr.DuplicateAssociation)
}

func TestLoadDuplicateViseme(t *testing.T) {
	path := fixture(t, `{"visemes": [
  {"symbol": "default", "file_path": "Silence.viseme"},
  {"symbol": "default", "file_path": "Open.viseme"}]}`)
	_, err := Load(path, symbols{}, nil)
	require.ErrorIs(t, err, loaderr.DuplicateViseme)
}

func TestLoadMissingVisemeFileIsFatal(t *testing.T) {
	path := fixture(t, `{"visemes": [{"symbol": "default", "file_path": "Gone.viseme"}]}`)
	mesh, err := Load(path, symbols{}, nil)
	require.ErrorIs(t, err, loaderr.ConfigMissing)
	assert.Nil(t, mesh)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	path := fixture(t, `{
 "visemes": [{"symbol": "default", "file_path": "Silence.viseme"}],
 "animation_settings": {"state_transition_time": -1}}`)
	_, err := Load(path, symbols{}, nil)
	require.ErrorIs(t, err, loaderr.ConfigMalformed)
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shapes", "rest.yaml"), "Vertices:\n  - {x: 0.5, y: 0.25}\n")
	path := filepath.Join(dir, "visemes.yaml")
	writeFile(t, path, `visemes:
  - symbol: default
    file_path: shapes/rest.yaml
`)
	mesh, err := Load(path, symbols{}, nil)
	require.NoError(t, err)
	v, ok := mesh.Viseme("default")
	require.True(t, ok)
	assert.Equal(t, []mgl64.Vec2{{0.5, 0.25}}, v.Vertices)
	assert.False(t, mesh.IsReady(), "no associations yet")
}
