package control

import (
	"fmt"
	"path/filepath"

	"mouthshape/internal/document"

	"github.com/spf13/cobra"
)

// NewExportCmd writes the computed fingerprints to a document.
func NewExportCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <out>",
		Short: "Write fingerprints to a JSON, TOML or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			if !s.phonemes.IsReady() {
				return fmt.Errorf("phoneme database %s is not loaded", s.cfg.Resolve(s.cfg.Phonemes.Database))
			}
			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = s.cfg.Export.Format
			}
			out, err := exportPath(args[0], format)
			if err != nil {
				return err
			}
			if err := s.phonemes.Export(out); err != nil {
				return err
			}
			s.logger.WithField("path", out).Info("fingerprints exported")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d fingerprints to %s\n", s.phonemes.Len(), out)
			return nil
		},
	}
	cmd.Flags().String("format", "", "json, toml or yaml when <out> has no extension (default from config)")
	return cmd
}

// exportPath appends the format's extension when out has none.
func exportPath(out, format string) (string, error) {
	if filepath.Ext(out) != "" {
		return out, nil
	}
	f, err := document.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return out + "." + string(f), nil
}
