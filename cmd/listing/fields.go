package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <table>",
		Short: "Show the filterable fields of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			e, err := openEnv(cmd.Context(), cmd, []string{table})
			if err != nil {
				return err
			}
			defer e.Close()

			fields, err := e.service.Fields(cmd.Context(), table)
			if err != nil {
				return err
			}

			t := tablewriter.NewWriter(cmd.OutOrStdout())
			t.SetHeader([]string{"name", "kind", "global", "values"})
			t.SetAutoFormatHeaders(false)
			for _, f := range fields {
				t.Append([]string{f.Name, f.Kind.String(), fmt.Sprint(f.Global), strings.Join(f.EnumValues, ",")})
			}
			t.Render()
			return nil
		},
	}
}
