package main

import (
	"github.com/spf13/cobra"

	"coerce/internal/coerce"
	"coerce/internal/conformance"
	"coerce/internal/heap"
	"coerce/internal/report"
	"coerce/internal/testkit"
	"coerce/internal/value"
)

var tableCmd = &cobra.Command{
	Use:   "table [value...]",
	Short: "Print typeof, Number(), Boolean() and String() for each value",
	Long: `Print a coercion table for values written in notation. Without
arguments the built-in sample set is used. --matrix prints the pairwise
equality matrix instead (=== strict, == loose, ! error).`,
	RunE: runTable,
}

func init() {
	tableCmd.Flags().Bool("matrix", false, "print the pairwise equality matrix")
}

func runTable(cmd *cobra.Command, args []string) error {
	var (
		e      *coerce.Engine
		labels []string
		values []value.Value
	)
	if len(args) == 0 {
		u := testkit.NewUniverse()
		e = u.Engine
		for _, s := range u.Samples {
			labels = append(labels, s.Label)
			values = append(values, s.Value)
		}
	} else {
		h := heap.New()
		n := &conformance.Notation{Heap: h, Inline: true}
		parsed, err := n.ParseAll(args)
		if err != nil {
			return err
		}
		e, labels, values = coerce.New(h), args, parsed
	}

	matrix, _ := cmd.Flags().GetBool("matrix")
	if matrix {
		return report.EqualityMatrix(e, labels, values).Render(cmd.OutOrStdout())
	}
	return report.CoercionTable(e, labels, values).Render(cmd.OutOrStdout())
}
