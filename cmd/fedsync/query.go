package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencatalog/fedsync/pkg/search"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Render a search filter as the SQL it would execute",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := search.NewFilter()

			andFlags, err := cmd.Flags().GetStringArray("and")
			if err != nil {
				return err
			}
			for _, kv := range andFlags {
				name, value, err := parseParam(kv)
				if err != nil {
					return err
				}
				filter.AddAndParam(name, value)
			}

			orFlags, err := cmd.Flags().GetStringArray("or")
			if err != nil {
				return err
			}
			for _, kv := range orFlags {
				name, value, err := parseParam(kv)
				if err != nil {
					return err
				}
				filter.AddParam(name, value)
			}

			pageSize, err := cmd.Flags().GetInt("page-size")
			if err != nil {
				return err
			}
			if pageSize > 0 {
				page, err := cmd.Flags().GetInt("page")
				if err != nil {
					return err
				}
				filter.WithPage(&search.PageRequest{Number: page, Size: pageSize})
			}

			table, err := cmd.Flags().GetString("table")
			if err != nil {
				return err
			}

			sql, params, err := search.Assemble(filter).ToSQL(table)
			if err != nil {
				return err
			}

			fmt.Println(sql)
			if len(params) > 0 {
				fmt.Println(params)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("and", nil, "Conjunctive parameter as name=value; comma-separated values form a set")
	cmd.Flags().StringArray("or", nil, "Disjunctive (substring) parameter as name=value")
	cmd.Flags().String("table", "resources", "The table to render the query against")
	cmd.Flags().Int("page-size", 0, "Page size; 0 disables paging")
	cmd.Flags().Int("page", 0, "Zero-based page number")

	return cmd
}

// parseParam splits a name=value flag. A comma in the value makes it
// multi-valued.
func parseParam(kv string) (string, any, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("expected name=value, got %q", kv)
	}
	if strings.Contains(value, ",") {
		return name, strings.Split(value, ","), nil
	}
	return name, value, nil
}
