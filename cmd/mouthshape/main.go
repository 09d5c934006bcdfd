package main

import (
	"fmt"
	"os"

	"mouthshape/internal/control"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "mouthshape",
		Short: "Mouthshape — phoneme fingerprints and viseme animation",
		Long: `Mouthshape builds a database of per-phoneme frequency fingerprints from recorded
waveforms and maps phonemes to mouth-shape polygons (visemes) for animation.

Key commands:
  fingerprints [--json]     Load the phoneme database and print fingerprints
  visemes [--json]          Load visemes and phoneme associations
  animate "<phonemes>"      Step the viseme display through a phoneme sequence
  analyze <file>            Level, FFT peaks and fingerprint of a recording
  export <out>              Write fingerprints as JSON, TOML or YAML
  doctor|tail-log           Check files, show log tail

Env overrides: MOUTHSHAPE_PHONEME_DB, MOUTHSHAPE_VISEME_CONFIG,
               MOUTHSHAPE_LOG_LEVEL/FORMAT/STDERR, MOUTHSHAPE_FPS`,
		Example: `  mouthshape fingerprints
  mouthshape animate "a e 'aɪ'"
  mouthshape analyze Phonemes/English/a.wav --peaks 4
  mouthshape export fingerprints.yaml`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}

	root.Version = version
	root.SetVersionTemplate("Mouthshape v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/mouthshape/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewFingerprintsCmd(cfgPath))
	root.AddCommand(control.NewVisemesCmd(cfgPath))
	root.AddCommand(control.NewAnimateCmd(cfgPath))
	root.AddCommand(control.NewAnalyzeCmd(cfgPath))
	root.AddCommand(control.NewExportCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))

	applyColorHelp(root)

	return root.Execute()
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			// Subcommands keep cobra's flag listing.
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%sMouthshape%s — phoneme fingerprints and viseme animation %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sFingerprints phoneme recordings and drives a mouth-shape display from them.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  mouthshape [command] [flags]\n\n")

		write("%sFlags & env%s\n", bold, reset)
		writeln("  -c, --config <path>     config file (default ~/.config/mouthshape/config.toml)")
		writeln("  Env: MOUTHSHAPE_PHONEME_DB=path, MOUTHSHAPE_VISEME_CONFIG=path,")
		writeln("       MOUTHSHAPE_LOG_LEVEL=debug, MOUTHSHAPE_LOG_FORMAT=json,")
		writeln("       MOUTHSHAPE_LOG_STDERR=1, MOUTHSHAPE_FPS=30")
		writeln("")

		write("%sExamples%s\n", bold, reset)
		writeln("  mouthshape fingerprints --json")
		writeln("  mouthshape animate \"a e 'aɪ'\" --keyframes")
		writeln("  mouthshape analyze recording.raw --encoding s16 --rate 16000")
		writeln("  mouthshape export fingerprints.toml")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
