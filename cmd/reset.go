package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the active quiz, session progress and attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this erases the quiz, progress and history; pass --yes to confirm")
		}

		d, err := openDeps(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		d.engine.Reset(cmd.Context())
		fmt.Println("All quiz data erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
