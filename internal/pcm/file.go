package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mouthshape/internal/loaderr"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// RawSpec describes a headerless PCM file. It is ignored for WAV files.
type RawSpec struct {
	Encoding   Encoding
	Channels   int
	SampleRate int
}

// Open reads a waveform file, choosing the reader by extension.
func Open(path string, raw RawSpec) (Buffer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return ReadWAV(path)
	case ".raw", ".pcm":
		return ReadRaw(path, raw)
	default:
		return Buffer{}, loaderr.New(loaderr.UnsupportedAudioEncoding, path,
			"unrecognised waveform file type", nil)
	}
}

// ReadWAV loads the PCM payload of a mono WAV file without converting it.
func ReadWAV(path string) (Buffer, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Buffer{}, missingOrBroken(path, err)
	}
	defer fh.Close()

	dec := wav.NewDecoder(fh)
	if !dec.IsValidFile() {
		return Buffer{}, loaderr.New(loaderr.ConfigMalformed, path, "not a valid wav file", dec.Err())
	}
	if dec.NumChans != 1 {
		return Buffer{}, loaderr.New(loaderr.NonMonoAudio, path,
			fmt.Sprintf("only mono input supported, got %d channels", dec.NumChans), nil)
	}
	format := dec.WavAudioFormat
	if format == wavFormatExtensible {
		if format, err = extensibleSubFormat(path); err != nil {
			return Buffer{}, loaderr.New(loaderr.ConfigMalformed, path, "read extensible fmt chunk", err)
		}
	}
	enc, err := wavEncoding(format, dec.BitDepth)
	if err != nil {
		return Buffer{}, loaderr.New(loaderr.UnsupportedAudioEncoding, path, "unrecognised audio format", err)
	}
	if err := dec.FwdToPCM(); err != nil {
		return Buffer{}, loaderr.New(loaderr.ConfigMalformed, path, "locate pcm chunk", err)
	}

	info, err := fh.Stat()
	if err != nil {
		return Buffer{}, missingOrBroken(path, err)
	}
	if dec.PCMChunk.Size < 0 {
		return Buffer{}, loaderr.New(loaderr.ConfigMalformed, path,
			fmt.Sprintf("negative pcm chunk size %d", dec.PCMChunk.Size), nil)
	}
	// The declared chunk size is untrusted; the file length bounds it.
	data := make([]byte, min(int64(dec.PCMChunk.Size), info.Size()))
	n, err := io.ReadFull(dec.PCMChunk, data)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Buffer{}, loaderr.New(loaderr.ConfigMalformed, path, "read pcm chunk", err)
	}
	// Truncated files keep every whole sample that was written.
	n -= n % enc.Width()

	return Buffer{
		Encoding: enc,
		Format:   &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
		Data:     data[:n],
		Source:   path,
	}, nil
}

// extensibleSubFormat returns the format code carried in the first two bytes
// of the sub-format GUID of a WAVE_FORMAT_EXTENSIBLE fmt chunk.
func extensibleSubFormat(path string) (uint16, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer fh.Close()

	p := riff.New(fh)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, err
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}
		// 16 base bytes, cbSize, valid bits, channel mask, then the GUID.
		if ch.Size < 26 {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes", ch.Size)
		}
		body := make([]byte, 26)
		if _, err := io.ReadFull(ch, body); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(body[24:]), nil
	}
}

func wavEncoding(format, bitDepth uint16) (Encoding, error) {
	switch format {
	case wavFormatPCM:
		switch bitDepth {
		case 8:
			return U8, nil
		case 16:
			return S16, nil
		case 32:
			return S32, nil
		}
	case wavFormatFloat:
		if bitDepth == 32 {
			return F32, nil
		}
	}
	return Unknown, fmt.Errorf("wav format %#x with %d-bit samples", format, bitDepth)
}

// ReadRaw loads a headerless PCM file described by spec.
func ReadRaw(path string, spec RawSpec) (Buffer, error) {
	if spec.Encoding.Width() == 0 {
		return Buffer{}, loaderr.New(loaderr.UnsupportedAudioEncoding, path,
			"raw pcm file needs an encoding", nil)
	}
	channels := spec.Channels
	if channels == 0 {
		channels = 1
	}
	if channels != 1 {
		return Buffer{}, loaderr.New(loaderr.NonMonoAudio, path,
			fmt.Sprintf("only mono input supported, got %d channels", channels), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Buffer{}, missingOrBroken(path, err)
	}
	return Buffer{
		Encoding: spec.Encoding,
		Format:   &audio.Format{NumChannels: channels, SampleRate: spec.SampleRate},
		Data:     data,
		Source:   path,
	}, nil
}

func missingOrBroken(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return loaderr.New(loaderr.ConfigMissing, path, "waveform file not found", err)
	}
	return loaderr.New(loaderr.ConfigMalformed, path, "open waveform file", err)
}
