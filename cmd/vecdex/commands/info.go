package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show collection details and record count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("collection: %s\n", cfg.Collection)
		fmt.Printf("dimension:  %d\n", cfg.Dimension)
		fmt.Printf("engine:     %s (%s)\n", cfg.Engine, cfg.Path)
		fmt.Printf("records:    %d\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
