package phoneme

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mouthshape/internal/document"
	"mouthshape/internal/loaderr"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTone encodes a 16-bit mono sine through the wav encoder.
func writeTone(t *testing.T, path string, freq float64, rate, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, n)
	for i := range data {
		data[i] = int(math.Round(16000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))))
	}
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func writeDoc(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "English", "a.wav"), 100, 8000, 8000)
	cfg := filepath.Join(dir, "phonemes.json")
	writeDoc(t, cfg, `{
 "analysis": {"moving_average_filter": 1, "target_frequencies": [100, 200]},
 "phonemes": [{"symbol": "a", "file_path": "English/a.wav"}]
}`)

	s, err := Load(cfg, nil)
	require.NoError(t, err)
	assert.True(t, s.IsReady())
	assert.True(t, s.Frozen())
	assert.Equal(t, dir, s.RootDir())

	fp, ok := s.Fingerprint("a")
	require.True(t, ok)
	assert.Greater(t, fp[0], 50*fp[1])
}

func TestLoadMissingFileIsSilent(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.NoError(t, err)
	assert.False(t, s.IsReady())
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Frozen())
	require.ErrorIs(t, s.AddNormalized("a", []float64{0}, 8000), loaderr.StoreFrozen)
}

func TestLoadUnreadableFileIsSilent(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.Mkdir(cfg, 0o755))

	s, err := Load(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, s.IsReady())
	assert.True(t, s.Frozen())
}

func TestLoadMalformed(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "phonemes.json")
	writeDoc(t, cfg, `{"analysis": `)
	_, err := Load(cfg, nil)
	require.ErrorIs(t, err, loaderr.ConfigMalformed)
}

func TestLoadWithoutFrequencies(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "a.wav"), 100, 8000, 80)

	cases := map[string]string{
		"analysis without frequencies": `{"analysis": {"moving_average_filter": 2}, "phonemes": []}`,
		"phonemes without analysis":    `{"phonemes": [{"symbol": "a", "file_path": "a.wav"}]}`,
	}
	for name, body := range cases {
		cfg := filepath.Join(dir, "db.json")
		writeDoc(t, cfg, body)
		_, err := Load(cfg, nil)
		require.ErrorIs(t, err, loaderr.NoTargetFrequencies, name)
	}
}

func TestLoadDuplicateSymbolAborts(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "a.wav"), 100, 8000, 80)
	cfg := filepath.Join(dir, "db.json")
	writeDoc(t, cfg, `{"analysis": {"target_frequencies": [100]},
 "phonemes": [{"symbol": "a", "file_path": "a.wav"}, {"symbol": "a", "file_path": "a.wav"}]}`)

	s, err := Load(cfg, nil)
	require.ErrorIs(t, err, loaderr.DuplicateSymbol)
	assert.Nil(t, s)
}

func TestLoadMissingWaveformAborts(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "db.json")
	writeDoc(t, cfg, `{"analysis": {"target_frequencies": [100]},
 "phonemes": [{"symbol": "a", "file_path": "gone.wav"}]}`)

	_, err := Load(cfg, nil)
	require.ErrorIs(t, err, loaderr.ConfigMissing)
}

func TestLoadLegacyFilterKeyAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "a.wav"), 100, 8000, 800)
	cfg := filepath.Join(dir, "db.yaml")
	writeDoc(t, cfg, `analysis:
  moving_avarage_filter: 5
  target_frequencies: [100]
  window: hann
phonemes:
  - symbol: a
    file_path: a.wav
`)
	s, err := Load(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, s.MovingAverageFilter())
	assert.Equal(t, "hann", string(s.Analysis().Window))
}

func TestLoadRejectsBadFilter(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "db.toml")
	writeDoc(t, cfg, "[analysis]\nmoving_average_filter = 0\ntarget_frequencies = [100.0]\n")
	_, err := Load(cfg, nil)
	require.ErrorIs(t, err, loaderr.ConfigMalformed)
}

func TestLoadRawFile(t *testing.T) {
	dir := t.TempDir()
	var data []byte
	for i := 0; i < 8000; i++ {
		v := int16(16000 * math.Sin(2*math.Pi*100*float64(i)/8000))
		data = binary.LittleEndian.AppendUint16(data, uint16(v))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.raw"), data, 0o644))
	cfg := filepath.Join(dir, "db.json")
	writeDoc(t, cfg, `{"analysis": {"target_frequencies": [100, 200]},
 "phonemes": [{"symbol": "a", "file_path": "a.raw", "encoding": "s16", "sample_rate": 8000}]}`)

	s, err := Load(cfg, nil)
	require.NoError(t, err)
	fp, _ := s.Fingerprint("a")
	assert.Greater(t, fp[0], 50*fp[1])
}

func TestLoadRawFileBadEncoding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.raw"), []byte{0, 0}, 0o644))
	cfg := filepath.Join(dir, "db.json")
	writeDoc(t, cfg, `{"analysis": {"target_frequencies": [100]},
 "phonemes": [{"symbol": "a", "file_path": "a.raw", "encoding": "s24"}]}`)

	_, err := Load(cfg, nil)
	require.ErrorIs(t, err, loaderr.UnsupportedAudioEncoding)
}

func TestExportSnapshot(t *testing.T) {
	s := newTestStore(100, 200)
	require.NoError(t, s.AddNormalized("e", tone(200, 8000, 8000), 8000))
	require.NoError(t, s.AddNormalized("a", tone(100, 8000, 8000), 8000))

	out := filepath.Join(t.TempDir(), "out", "fingerprints.yaml")
	require.NoError(t, s.Export(out))

	var snap Snapshot
	require.NoError(t, document.Read(out, &snap))
	require.Len(t, snap.Fingerprints, 2)
	assert.Equal(t, "a", snap.Fingerprints[0].Symbol)
	assert.Equal(t, []float64{100, 200}, snap.Analysis.TargetFrequencies)
	assert.Equal(t, "window", snap.Analysis.FrequencyBasis)
	assert.Equal(t, "none", snap.Analysis.Window)
}
