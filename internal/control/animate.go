package control

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"mouthshape/internal/viseme"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

// NewAnimateCmd steps the display through a phoneme sequence at the
// configured frame rate and prints the polygon of each frame.
func NewAnimateCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animate \"<phonemes>\"",
		Short: "Simulate the viseme display for a phoneme sequence",
		Long: `Symbols are split like shell words, so multi-character phonemes can be
quoted: mouthshape animate "a 'aɪ' e"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			d, err := s.requireDisplay()
			if err != nil {
				return err
			}
			symbols, err := shlex.Split(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("parse phonemes: %w", err)
			}
			keyframes, _ := cmd.Flags().GetBool("keyframes")
			a := animator{
				mesh:      s.mesh,
				display:   d,
				frame:     s.cfg.FrameInterval(),
				hold:      time.Duration(s.cfg.Animation.HoldSec * float64(time.Second)),
				keyframes: keyframes,
			}
			return a.run(cmd.OutOrStdout(), symbols)
		},
	}
	cmd.Flags().Bool("keyframes", false, "print only the first and last frame of each phoneme")
	return cmd
}

type animator struct {
	mesh      *viseme.Mesh
	display   *viseme.Display
	frame     time.Duration
	hold      time.Duration
	keyframes bool
	clock     time.Duration
}

func (a *animator) run(out io.Writer, symbols []string) error {
	a.print(out, "-")
	for _, sym := range symbols {
		if !a.mesh.ShowPhoneme(sym) {
			fmt.Fprintf(out, "%8.3fs %-6s skipped: no viseme association\n", a.clock.Seconds(), sym)
			continue
		}
		steps := max(1, int(math.Ceil(float64(a.mesh.TransitionTime()+a.hold)/float64(a.frame))))
		for i := 1; i <= steps; i++ {
			a.display.Advance(a.frame)
			a.clock += a.frame
			if !a.keyframes || i == 1 || i == steps {
				a.print(out, sym)
			}
		}
	}
	return nil
}

func (a *animator) print(out io.Writer, sym string) {
	d := a.display
	fmt.Fprintf(out, "%8.3fs %-6s %-8s %-13s %.2f %s\n",
		a.clock.Seconds(), sym, d.Target(), d.Phase(), d.Progress(), formatVertices(d.Vertices()))
}
