package main

import (
	"encoding/csv"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UnknownOlympus/charon/internal/report"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.xlsx",
		Short: "Print the rows of a generated hardware sheet as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.ReadXLSX(args[0])
			if err != nil {
				return err
			}

			out := csv.NewWriter(cmd.OutOrStdout())
			if err = out.WriteAll(rows); err != nil {
				return fmt.Errorf("failed to print %s: %w", args[0], err)
			}

			return nil
		},
	}
}
