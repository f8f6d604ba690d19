package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		wipe, _ := cmd.Flags().GetBool("clear")

		d, err := openDeps(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if wipe {
			d.ledger.Clear(cmd.Context())
			fmt.Println("History cleared.")
			return nil
		}

		attempts := d.ledger.List()
		if len(attempts) == 0 {
			fmt.Println("No attempts yet.")
			return nil
		}

		fmt.Printf("%-19s  %7s  %5s\n", "Finished", "Score", "%")
		fmt.Println(strings.Repeat("─", 36))
		for i, a := range attempts {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Printf("%-19s  %3d/%-3d  %4d%%\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				a.Score, a.Total, a.Percent())
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (0 = all)")
	historyCmd.Flags().Bool("clear", false, "Delete all recorded attempts")
}
