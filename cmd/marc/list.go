package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "list --db <dir>",
		Short: "List catalogued records in control number order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tOFFSET\tLENGTH")
			for e, err := range st.All(cmd.Context()) {
				if err != nil {
					w.Flush()
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.ControlNumber, e.Source, e.Offset, e.Length)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")

	return cmd
}
