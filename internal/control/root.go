package control

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mouthshape/internal/doctor"

	"github.com/spf13/cobra"
)

// NewFingerprintsCmd loads the phoneme database and prints its fingerprints.
func NewFingerprintsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fingerprints",
		Aliases: []string{"phonemes"},
		Short:   "Load the phoneme database and print fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			snap := s.phonemes.Snapshot()
			status := Status{
				Database:    s.cfg.Resolve(s.cfg.Phonemes.Database),
				Ready:       s.phonemes.IsReady(),
				Frequencies: snap.Analysis.TargetFrequencies,
				Filter:      snap.Analysis.MovingAverageFilter,
				Phonemes:    snap.Fingerprints,
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(status)
			}
			fmt.Fprintf(out, "database: %s\nready: %v\n", status.Database, status.Ready)
			fmt.Fprintf(out, "frequencies: %v\nmoving_average_filter: %d\n", status.Frequencies, status.Filter)
			for _, fp := range status.Phonemes {
				fmt.Fprintf(out, "%-6s %s\n", fp.Symbol, formatFloats(fp.Magnitudes))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// NewVisemesCmd loads the viseme config and prints visemes and associations.
func NewVisemesCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visemes",
		Short: "Load the viseme config and print shapes and associations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			status := VisemeStatus{
				Config:        s.cfg.Resolve(s.cfg.Visemes.Config),
				Ready:         s.mesh.IsReady(),
				TransitionSec: s.mesh.TransitionTime().Seconds(),
				Visemes:       map[string]int{},
				Associations:  s.mesh.Associations(),
			}
			for sym, v := range s.mesh.Visemes() {
				status.Visemes[sym] = len(v.Vertices)
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(status)
			}
			fmt.Fprintf(out, "config: %s\nready: %v\ntransition: %.3fs\n", status.Config, status.Ready, status.TransitionSec)
			for _, sym := range s.mesh.Table().Symbols() {
				fmt.Fprintf(out, "viseme %-10s %d vertices\n", sym, status.Visemes[sym])
			}
			for _, ph := range sortedKeys(status.Associations) {
				fmt.Fprintf(out, "%-6s -> %s\n", ph, status.Associations[ph])
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// NewTailLogCmd tails the main log file (simple last N lines).
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail-log",
		Short: "Show the last log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := openConfig(*cfgPath)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("lines")
			return tailFile(cmd.OutOrStdout(), cfg.Paths.LogPath, n)
		},
	}
	cmd.Flags().IntP("lines", "n", 50, "number of lines")
	return cmd
}

func tailFile(out io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			fmt.Fprintln(out, l)
		}
	}
	return nil
}

// NewDoctorCmd runs environment checks.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, phoneme database and viseme files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := openConfig(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(cfg)
			failed := false
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
					failed = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-4s %s\n", r.Name, status, r.Detail)
			}
			if failed {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
}
