package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchK      int
	searchVector string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Top-k cosine similarity search",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parseVector(searchVector)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.Search(cmd.Context(), query, searchK)
		if err != nil {
			return err
		}
		// The store returns matches in scan order; rank them for display.
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Similarity > matches[j].Similarity
		})

		if searchJSON {
			type jsonMatch struct {
				ID         string    `json:"id"`
				Vector     []float32 `json:"vector"`
				Similarity float64   `json:"similarity"`
			}
			out := make([]jsonMatch, len(matches))
			for i, m := range matches {
				out[i] = jsonMatch{ID: m.ID, Vector: m.Vector, Similarity: m.Similarity}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		for _, m := range matches {
			fmt.Printf("%s\t%.6f\n", m.ID, m.Similarity)
		}
		return nil
	},
}

// parseVector parses a comma-separated float list like "0.1,0.9,0".
func parseVector(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("--vector is required")
	}
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector element %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "k", "k", 10, "number of results")
	searchCmd.Flags().StringVar(&searchVector, "vector", "", "query vector as comma-separated floats")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "JSON output")
	rootCmd.AddCommand(searchCmd)
}
