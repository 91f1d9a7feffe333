package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/hipster/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the embedded scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := scenario.List()
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"name", "kind", "description"})
		for _, name := range names {
			s, err := scenario.LoadBuiltin(name)
			if err != nil {
				return err
			}
			table.Append([]string{s.Name, string(s.Kind), s.Description})
		}
		table.Render()
		return nil
	},
}
