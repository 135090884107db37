package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coerce/internal/coerce"
	"coerce/internal/conformance"
	"coerce/internal/heap"
	"coerce/internal/trace"
)

var evalCmd = &cobra.Command{
	Use:   "eval <op> <value>...",
	Short: "Evaluate one operation on values written in notation",
	Long: `Evaluate one operation and print its result in value notation.

Values: null undefined true false bool:<b> num:<n> str:<text> str:"<quoted>"
big:<integer> arr:<value>|<value>... obj fn[:name]

Examples:
  coerce eval looseEquals null undefined
  coerce eval toString arr:num:1|null|str:x
  coerce eval add big:1 num:2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	file, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, file.Config.Trace)
	if err != nil {
		return err
	}
	failed := true
	defer func() { cleanup(failed) }()

	spec, ok := conformance.LookupOp(args[0])
	if !ok {
		return fmt.Errorf("unknown op %q (known: %s)", args[0], strings.Join(conformance.OpNames(), ", "))
	}
	if got := len(args) - 1; got != spec.Arity {
		return fmt.Errorf("%s takes %d argument(s), got %d", spec.Name, spec.Arity, got)
	}

	h := heap.New()
	n := &conformance.Notation{Heap: h, Inline: true}
	values, err := n.ParseAll(args[1:])
	if err != nil {
		return err
	}

	e := coerce.New(h, coerce.WithTracer(trace.FromContext(cmd.Context())))
	result, err := spec.Eval(e, values)
	if err != nil {
		return err
	}
	failed = false
	_, err = fmt.Fprintln(cmd.OutOrStdout(), conformance.Format(result, nil))
	return err
}
