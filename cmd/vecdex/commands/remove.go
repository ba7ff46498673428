package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove ID...",
	Aliases: []string{"rm"},
	Short:   "Delete vectors by id",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RemoveVectors(cmd.Context(), args); err != nil {
			return err
		}
		fmt.Printf("removed %d id(s)\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
