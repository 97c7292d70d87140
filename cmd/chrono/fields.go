package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the temporal fields and their valid ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-26s %-10s %-10s %-6s %s\n", "FIELD", "UNIT", "RANGE", "KIND", "VALID VALUES")
			for _, f := range temporal.Fields() {
				fmt.Fprintf(out, "%-26s %-10s %-10s %-6s %s\n",
					f.Name(), f.BaseUnit(), f.RangeUnit(), fieldKind(f), f.Range())
			}
			return nil
		},
	}
}

func fieldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "field <name> [value]",
		Short: "Describe a field, optionally checking a value against it",
		Long: `Describe a temporal field. With a value, report whether the value
is within the field's valid range.

Examples:
  chrono field DayOfMonth
  chrono field DayOfMonth 32`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := temporal.ByName(args[0])
			if !ok {
				return fmt.Errorf("unknown field %q, run 'chrono fields' for the list", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Field:        %s\n", f.Name())
			fmt.Fprintf(out, "Base unit:    %s\n", f.BaseUnit())
			fmt.Fprintf(out, "Range unit:   %s\n", f.RangeUnit())
			fmt.Fprintf(out, "Kind:         %s\n", fieldKind(f))
			fmt.Fprintf(out, "Valid values: %s\n", f.Range())
			if len(args) == 1 {
				return nil
			}

			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("value %q is not an integer", args[1])
			}
			if _, err := f.CheckValidValue(value); err != nil {
				return err
			}
			fmt.Fprintf(out, "Value %d is valid\n", value)
			return nil
		},
	}
}

func unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the temporal units and their durations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-20s %s\n", "UNIT", "DURATION", "ESTIMATED")
			for _, u := range temporal.Units() {
				fmt.Fprintf(out, "%-10s %-20s %t\n", u, u.Duration(), u.IsDurationEstimated())
			}
			return nil
		},
	}
}

func fieldKind(f temporal.Field) string {
	switch {
	case f.IsDateBased():
		return "date"
	case f.IsTimeBased():
		return "time"
	}
	return "-"
}
