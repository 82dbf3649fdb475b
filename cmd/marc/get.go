package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davidvella/marc/record"
	"github.com/davidvella/marc/store"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	var (
		db  string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "get --db <dir> <control-number>",
		Short: "Print a catalogued record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			e, err := st.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("record %s not found", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err := io.WriteString(out, e.Text)
				return err
			}

			rec, err := record.Parse(e.Text, a.cfg.HideUTF8Warnings, a.cfg.UTF8Handling)
			if err != nil {
				return fmt.Errorf("failed to parse record %s: %w", e.ControlNumber, err)
			}

			styles := newFieldStyles(out)
			fmt.Fprintf(out, "source  %s\noffset  %d\nlength  %d\n", e.Source, e.Offset, e.Length)
			fmt.Fprintf(out, "%s     %s\n", styles.tag.Render("LDR"), rec.Leader)
			for _, f := range rec.Fields {
				fmt.Fprintln(out, styles.format(f))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the record in transmission format")

	return cmd
}

type fieldStyles struct {
	tag  lipgloss.Style
	code lipgloss.Style
}

// newFieldStyles returns styles for w. Colour is dropped when w is not a
// terminal.
func newFieldStyles(w io.Writer) fieldStyles {
	r := lipgloss.NewRenderer(w)
	return fieldStyles{
		tag:  r.NewStyle().Bold(true),
		code: r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// format renders a field in the line-mode layout of cataloguing tools:
// tag, indicators, then $-prefixed subfields.
func (s fieldStyles) format(f record.Field) string {
	if f.IsControl() {
		return fmt.Sprintf("%s     %s", s.tag.Render(f.Tag), f.Data)
	}

	var sb strings.Builder
	sb.WriteString(s.tag.Render(f.Tag))
	sb.WriteString("  ")
	for _, ind := range f.Indicators {
		if ind == "" || ind == " " {
			ind = "_"
		}
		sb.WriteString(ind)
	}
	for _, sf := range f.Subfields {
		sb.WriteString(" ")
		sb.WriteString(s.code.Render("$" + sf.Code))
		sb.WriteString(" ")
		sb.WriteString(sf.Value)
	}
	return sb.String()
}
