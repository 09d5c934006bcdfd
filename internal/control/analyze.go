package control

import (
	"encoding/json"
	"fmt"

	"mouthshape/internal/dsp"
	"mouthshape/internal/pcm"

	"github.com/spf13/cobra"
)

// Analysis is the output of `analyze`.
type Analysis struct {
	File        string      `json:"file"`
	SampleRate  int         `json:"sample_rate"`
	Encoding    string      `json:"encoding"`
	Level       dsp.Summary `json:"level"`
	Energy      float64     `json:"energy"`
	Silent      bool        `json:"silent"`
	Peaks       []dsp.Peak  `json:"peaks"`
	Frequencies []float64   `json:"target_frequencies,omitempty"`
	Fingerprint []float64   `json:"fingerprint,omitempty"`
}

// NewAnalyzeCmd prints level statistics and spectral peaks of a recording,
// plus its fingerprint under the loaded database's analysis settings.
func NewAnalyzeCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Inspect a waveform: level, FFT peaks and fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			raw, err := rawSpecFromFlags(cmd)
			if err != nil {
				return err
			}
			buf, err := pcm.Open(args[0], raw)
			if err != nil {
				return err
			}
			wave, err := pcm.Normalize(buf)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("peaks")
			if n <= 0 {
				n = s.cfg.Analyze.Peaks
			}
			res := Analysis{
				File:       args[0],
				SampleRate: buf.SampleRate(),
				Encoding:   buf.Encoding.String(),
				Level:      dsp.Summarize(wave.Data),
				Energy:     dsp.Energy(wave.Data),
				Silent:     dsp.Silent(wave.Data),
				Peaks:      dsp.Peaks(wave.Data, buf.SampleRate(), n),
			}
			if freqs := s.phonemes.TargetFrequencies(); len(freqs) > 0 {
				fp, err := s.phonemes.Measure(buf)
				if err != nil {
					return err
				}
				res.Frequencies, res.Fingerprint = freqs, fp
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(res)
			}
			fmt.Fprintf(out, "file: %s\nencoding: %s\nsample_rate: %d\n", res.File, res.Encoding, res.SampleRate)
			fmt.Fprintf(out, "samples: %d rms: %.4f peak: %.4f mean: %.4f\n",
				res.Level.Samples, res.Level.RMS, res.Level.Peak, res.Level.Mean)
			fmt.Fprintf(out, "energy: %.4f\n", res.Energy)
			if res.Silent {
				fmt.Fprintln(out, "warning: silent recording")
			}
			for _, p := range res.Peaks {
				fmt.Fprintf(out, "peak %9.2f Hz  %.4f\n", p.Frequency, p.Magnitude)
			}
			if res.Fingerprint != nil {
				fmt.Fprintf(out, "frequencies: %v\nfingerprint: %s\n", res.Frequencies, formatFloats(res.Fingerprint))
			}
			return nil
		},
	}
	cmd.Flags().Int("peaks", 0, "number of spectral peaks (default from config)")
	cmd.Flags().String("encoding", "", "sample encoding of a .raw/.pcm file (u8, s8, u16, s16, s32, f32)")
	cmd.Flags().Int("rate", 0, "sample rate of a .raw/.pcm file")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

func rawSpecFromFlags(cmd *cobra.Command) (pcm.RawSpec, error) {
	var spec pcm.RawSpec
	if enc, _ := cmd.Flags().GetString("encoding"); enc != "" {
		e, err := pcm.ParseEncoding(enc)
		if err != nil {
			return spec, err
		}
		spec.Encoding = e
	}
	spec.SampleRate, _ = cmd.Flags().GetInt("rate")
	return spec, nil
}
