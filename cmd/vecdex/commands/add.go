package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vecdex/vecdex/vector"
)

var addFile string

// jsonRecord is the input wire form of a record.
type jsonRecord struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Upsert vectors from a JSON file or stdin",
	Long: `Reads records as a JSON array or as JSON lines:

  [{"id": "v1", "vector": [1, 0, 0, 0]}, ...]

or

  {"id": "v1", "vector": [1, 0, 0, 0]}
  {"id": "v2", "vector": [0, 1, 0, 0]}

Records with an empty id are assigned a generated one. Writing an
existing id overwrites its vector.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if addFile != "" && addFile != "-" {
			f, err := os.Open(addFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		records, err := readRecords(in)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ids, err := s.AddVectors(cmd.Context(), records)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func readRecords(in io.Reader) ([]vector.Record, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no input records")
	}

	var raw []jsonRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse records: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		for {
			var r jsonRecord
			if err := dec.Decode(&r); err == io.EOF {
				break
			} else if err != nil {
				return nil, fmt.Errorf("parse records: %w", err)
			}
			raw = append(raw, r)
		}
	}

	records := make([]vector.Record, len(raw))
	for i, r := range raw {
		records[i] = vector.Record{ID: r.ID, Vector: r.Vector}
	}
	return records, nil
}

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "JSON input file (default stdin)")
	rootCmd.AddCommand(addCmd)
}
