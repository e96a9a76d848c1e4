package pinelabs

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
	"finmap/internal/domain/pinelabs"
)

var (
	setFile string
	setRows []string
)

var SetCmd = &cobra.Command{
	Use:   "set <mapping-id>",
	Short: "Replace the detail rows of a mapping",
	Long: `Replaces the full detail set of a mapping on the server. Rows on the
server that are not in the submitted set are deleted.

Rows come from a JSON file (--file) holding an array of objects with
pos_id, tid, serial_no and store_id fields, or from repeated --row flags
in id:pos:tid:serial:store form. An id of 0 means a new row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		mappingID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid mapping id: %s", args[0])
		}

		entries, err := collectEntries()
		if err != nil {
			return err
		}

		result, err := app.SetDetails(cmd.Context(), mappingID, entries)
		if err != nil {
			return fmt.Errorf("set details: %w", err)
		}

		if result.NoOp() {
			color.Yellow("No changes: submitted rows match the server")
		} else {
			color.Green("Details updated")
		}
		fmt.Printf("Inserted: %d  Updated: %d  Deleted: %d", result.Inserted, result.Updated, result.Deleted)
		if result.Dropped > 0 {
			fmt.Printf("  Dropped empty: %d", result.Dropped)
		}
		fmt.Println()
		return nil
	},
}

// collectEntries merges rows from --file and --row; an empty result is a
// valid request that deletes every row of the mapping.
func collectEntries() ([]pinelabs.Entry, error) {
	entries := make([]pinelabs.Entry, 0)

	if setFile != "" {
		data, err := os.ReadFile(setFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", setFile, err)
		}
		var fromFile []pinelabs.Entry
		if err := json.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", setFile, err)
		}
		entries = append(entries, fromFile...)
	}

	for _, raw := range setRows {
		entry, err := parseRowFlag(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRowFlag(raw string) (pinelabs.Entry, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 5 {
		return pinelabs.Entry{}, fmt.Errorf("invalid --row %q, want id:pos:tid:serial:store", raw)
	}

	id := 0
	if parts[0] != "" {
		var err error
		id, err = strconv.Atoi(parts[0])
		if err != nil {
			return pinelabs.Entry{}, fmt.Errorf("invalid --row id %q", parts[0])
		}
	}

	return pinelabs.Entry{
		ID:       id,
		PosID:    parts[1],
		TID:      parts[2],
		SerialNo: parts[3],
		StoreID:  parts[4],
	}, nil
}

func init() {
	SetCmd.Flags().StringVarP(&setFile, "file", "F", "", "JSON file with the detail rows")
	SetCmd.Flags().StringArrayVarP(&setRows, "row", "r", nil, "detail row as id:pos:tid:serial:store (repeatable)")
}
