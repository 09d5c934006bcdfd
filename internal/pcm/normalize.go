// Package pcm turns raw PCM sample buffers into canonical float waveforms.
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"mouthshape/internal/loaderr"

	"github.com/go-audio/audio"
)

// Buffer is a block of raw little-endian samples tagged with its encoding.
type Buffer struct {
	Encoding Encoding
	Format   *audio.Format
	Data     []byte
	// Source names the file the samples came from, for error messages.
	Source string
}

// NumChannels returns the channel count, treating a nil format as mono.
func (b Buffer) NumChannels() int {
	if b.Format == nil {
		return 1
	}
	return b.Format.NumChannels
}

// SampleRate returns the sample rate in Hz, or 0 when unknown.
func (b Buffer) SampleRate() int {
	if b.Format == nil {
		return 0
	}
	return b.Format.SampleRate
}

// NumSamples returns how many whole samples Data holds.
func (b Buffer) NumSamples() int {
	w := b.Encoding.Width()
	if w == 0 {
		return 0
	}
	return len(b.Data) / w
}

// Normalize decodes buf into floats linearly scaled to [-1, 1].
// Multi-channel input is rejected before any sample is read.
func Normalize(buf Buffer) (*audio.FloatBuffer, error) {
	if ch := buf.NumChannels(); ch != 1 {
		return nil, loaderr.New(loaderr.NonMonoAudio, buf.Source,
			fmt.Sprintf("only mono input supported, got %d channels", ch), nil)
	}
	width := buf.Encoding.Width()
	if width == 0 {
		return nil, loaderr.New(loaderr.UnsupportedAudioEncoding, buf.Source,
			fmt.Sprintf("unrecognised audio format %s", buf.Encoding), nil)
	}
	if len(buf.Data)%width != 0 {
		return nil, loaderr.New(loaderr.ConfigMalformed, buf.Source,
			fmt.Sprintf("%d bytes is not a whole number of %s samples", len(buf.Data), buf.Encoding), nil)
	}

	n := len(buf.Data) / width
	out := make([]float64, n)
	data := buf.Data
	le := binary.LittleEndian
	switch buf.Encoding {
	case U8:
		for i := 0; i < n; i++ {
			out[i] = (float64(data[i]) - 128) / 128
		}
	case S8:
		for i := 0; i < n; i++ {
			out[i] = float64(int8(data[i])) / 128
		}
	case U16:
		for i := 0; i < n; i++ {
			out[i] = (float64(le.Uint16(data[2*i:])) - 32768) / 32768
		}
	case S16:
		for i := 0; i < n; i++ {
			out[i] = float64(int16(le.Uint16(data[2*i:]))) / 32768
		}
	case S32:
		for i := 0; i < n; i++ {
			out[i] = float64(int32(le.Uint32(data[4*i:]))) / 2147483648
		}
	case F32:
		for i := 0; i < n; i++ {
			out[i] = float64(math.Float32frombits(le.Uint32(data[4*i:])))
		}
	}
	for i, v := range out {
		out[i] = clamp(v)
	}

	format := &audio.Format{NumChannels: 1, SampleRate: buf.SampleRate()}
	return &audio.FloatBuffer{Format: format, Data: out}, nil
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
