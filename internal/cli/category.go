package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoryCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage menu categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).categories.Refresh(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range (*a).categories.Categories() {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := (*a).gw.CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created category %q (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.AddCommand(list, create)
	return cmd
}
