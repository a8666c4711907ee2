package app

import (
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/intakesync/intakesync/internal/cmdutil"
	"github.com/intakesync/intakesync/pkg/ledger"
)

// recordFile summarizes one exported category file.
type recordFile struct {
	Category string `json:"category" yaml:"category"`
	Rows     int    `json:"rows" yaml:"rows"`
	Columns  int    `json:"columns" yaml:"columns"`
	Size     int64  `json:"size_bytes" yaml:"size_bytes"`
	Modified string `json:"modified" yaml:"modified"`
}

// NewRecordsCommand creates the records command.
func (a *App) NewRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		GroupID: "data",
		Short:   "Show the exported category files and their row counts",
		Long: `Records lists each per-category CSV file in the exports directory
with its row count, column count, size, and last update time.`,
		Example: `  intakesync records
  intakesync records -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := ledger.New(a.config.ExportsDir)
			if err != nil {
				return err
			}

			categories, err := led.Categories()
			if err != nil {
				return err
			}

			files := make([]recordFile, 0, len(categories))
			for _, category := range categories {
				header, rows, err := led.Rows(category)
				if err != nil {
					return err
				}
				info, err := os.Stat(led.Path(category))
				if err != nil {
					return err
				}
				files = append(files, recordFile{
					Category: category,
					Rows:     len(rows),
					Columns:  len(header),
					Size:     info.Size(),
					Modified: info.ModTime().UTC().Format(time.RFC3339),
				})
			}

			format := cmdutil.DetectFormat(a.config.Format)
			if format != cmdutil.FormatTable {
				return cmdutil.NewFormatter(format).Format(cmd.OutOrStdout(), files)
			}

			if len(files) == 0 {
				cmd.Printf("No records exported yet under %s\n", a.config.ExportsDir)
				return nil
			}
			return cmdutil.NewFormatter(format).Format(cmd.OutOrStdout(), recordTable(files))
		},
	}

	return cmd
}

// recordTable renders category file summaries with humanized sizes and
// ages.
func recordTable(files []recordFile) cmdutil.Data {
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		age := file.Modified
		if modified, err := time.Parse(time.RFC3339, file.Modified); err == nil {
			age = humanize.Time(modified)
		}
		rows = append(rows, []string{
			file.Category,
			strconv.Itoa(file.Rows),
			strconv.Itoa(file.Columns),
			humanize.Bytes(uint64(file.Size)),
			age,
		})
	}
	return cmdutil.Data{
		Headers: []string{"Category", "Rows", "Columns", "Size", "Updated"},
		Rows:    rows,
		Alignment: []tw.Align{
			tw.AlignLeft,
			tw.AlignRight,
			tw.AlignRight,
			tw.AlignRight,
			tw.AlignLeft,
		},
	}
}
