package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/intakesync/intakesync/internal/airtable"
	"github.com/intakesync/intakesync/internal/cmdutil"
	"github.com/intakesync/intakesync/pkg/constants"
)

// tableField describes one Airtable column as the mapper sees it.
type tableField struct {
	Name        string `json:"name" yaml:"name"`
	MultiSelect bool   `json:"multi_select" yaml:"multi_select"`
}

// NewFieldsCommand creates the fields command.
func (a *App) NewFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		GroupID: "data",
		Short:   "List the Airtable columns visible to the field mapper",
		Long: `Fields discovers the Airtable table's columns from its existing
records and shows how the mapper treats each one. Multi-select columns
have their answers split on commas before injection.`,
		Example: `  intakesync fields
  intakesync fields -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.config.ValidateAirtable(); err != nil {
				return err
			}

			client := a.AirtableClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()
			names, err := client.FieldNames(ctx)
			if err != nil {
				return err
			}

			mapper := airtable.NewMapper(names, a.mapperOptions()...)
			fields := make([]tableField, 0, len(names))
			for _, name := range names {
				fields = append(fields, tableField{
					Name:        name,
					MultiSelect: mapper.IsMultiSelect(name),
				})
			}

			format := cmdutil.DetectFormat(a.config.Format)
			if format != cmdutil.FormatTable {
				return cmdutil.NewFormatter(format).Format(cmd.OutOrStdout(), fields)
			}

			if len(fields) == 0 {
				cmd.Printf("No fields discovered in table %q\n", client.Table())
				return nil
			}
			return cmdutil.NewFormatter(format).Format(cmd.OutOrStdout(), fieldTable(fields))
		},
	}

	return cmd
}

// fieldTable renders mapper fields as tabular rows.
func fieldTable(fields []tableField) cmdutil.Data {
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		multi := "no"
		if field.MultiSelect {
			multi = "yes"
		}
		rows = append(rows, []string{field.Name, multi})
	}
	return cmdutil.Data{
		Headers: []string{"Field", "Multi-Select"},
		Rows:    rows,
	}
}
