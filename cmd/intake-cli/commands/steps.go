package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Steps returns the command listing known step definitions.
func Steps(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the wizard steps that can be rendered or prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := g.catalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS\tREQUIRED")
			for _, step := range cat.Steps() {
				required := 0
				for _, field := range step.FieldNames() {
					if step.Required(field) {
						required++
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", step.ID, step.Title, len(step.Questions), required)
			}
			return tw.Flush()
		},
	}
}
