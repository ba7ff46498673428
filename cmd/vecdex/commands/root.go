// Package commands implements the vecdex CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	engineName string
	dbPath     string
	collection string
	dimension  int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vecdex",
	Short: "Embedded vector store with exact cosine-similarity search",
	Long: `vecdex stores fixed-dimension embedding vectors in a local database
(SQLite by default, Badger optionally) and answers top-k queries by
cosine similarity with a single exact scan - no server, no index.

Vectors shorter than the collection dimension are zero-padded, longer
ones are truncated.

Examples:
  # add records to a 4-dimensional collection
  echo '[{"id":"v1","vector":[1,0,0,0]}]' | vecdex -n demo -d 4 add

  # query the 2 most similar records
  vecdex -n demo -d 4 search -k 2 --vector 1,0,0,0

  # same collection on the badger engine
  vecdex --engine badger --path ./data -n demo -d 4 info

Settings may also come from a YAML config file (--config, or ./vecdex.yaml
when present); flags override file values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "storage engine: sqlite or badger")
	rootCmd.PersistentFlags().StringVar(&dbPath, "path", "", "database file (sqlite) or data directory (badger)")
	rootCmd.PersistentFlags().StringVarP(&collection, "collection", "n", "", "collection name")
	rootCmd.PersistentFlags().IntVarP(&dimension, "dimension", "d", 0, "fixed vector dimension of the collection")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
