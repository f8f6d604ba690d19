package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active quiz as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		d, err := openDeps(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.engine.Quiz() == nil {
			return errors.New("no active quiz; run extract first")
		}
		if out == "" {
			data, err := d.engine.Export()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return writeExport(d, out)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Make an exported quiz the active quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read quiz: %w", err)
		}

		d, err := openDeps(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.engine.Import(cmd.Context(), data); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		z := d.engine.Quiz()
		fmt.Printf("Imported %s: %d questions\n", z.Title, len(z.Questions))
		return nil
	},
}

// writeExport writes the active quiz to path.
func writeExport(d *deps, path string) error {
	data, err := d.engine.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}
