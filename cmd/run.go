package cmd

import (
	"github.com/abhisek/pdfquiz/internal/app"
	"github.com/spf13/cobra"
)

// runApp opens the store, restores the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd.Context(), cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Engine: d.engine,
		Prefs:  d.slots,
	})
}
