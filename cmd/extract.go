package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/session"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a quiz from a document and make it the active quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		out, _ := cmd.Flags().GetString("out")

		mode, err := extraction.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		ctx := cmd.Context()
		d, err := openDeps(ctx, cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.engine.Mode() != session.ModeUpload {
			if err := d.engine.NewDocument(); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "Extracting %s (%s mode)...\n", filepath.Base(args[0]), mode)
		doc := pagetext.Document{Name: filepath.Base(args[0]), Data: data}
		if err := d.engine.Extract(ctx, mode, doc); err != nil {
			if msg := d.engine.View().Failure; msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return err
		}

		z := d.engine.Quiz()
		fmt.Printf("%s: %d questions\n", z.Title, len(z.Questions))
		low := 0
		for _, q := range z.Questions {
			if q.Confidence < session.LowConfidenceThreshold {
				low++
			}
		}
		if low > 0 {
			fmt.Printf("%d questions are low-confidence; review them in the editor.\n", low)
		}

		if out != "" {
			return writeExport(d, out)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("mode", "m", "strict", "Extraction mode: strict or augmented")
	extractCmd.Flags().StringP("out", "o", "", "Also write the quiz as JSON to this file")
}
