package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/opt"
	"chainShop/internal/printer"
	"chainShop/internal/results"
)

var (
	solveTimes     []int
	solveMachines  int
	solveRelaxed   bool
	solveOracle    bool
	solveJSONDir   string
	solveName      string
	solveTimeLimit time.Duration
	solveGap       float64
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one instance and optionally cross-check it with the oracle",
	Long: `Solve one instance with the exact pseudo-polynomial search.

With --oracle the instance is also solved by the integer-program oracle and the
two makespans are compared. With --json the result document is written to
<dir>/result_<name>.json (SQLite and Redis sinks from the config are used too).

Examples:
  # Small hand-written instance
  chainshop solve --times 2,3,5,7 --machines 3 --relaxed

  # Cross-check with a 60s oracle limit and keep the result
  chainshop solve --times 10,1,10,1,10,1,10,1 -m 3 --relaxed --oracle --time-limit 60s --json results`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntSliceVarP(&solveTimes, "times", "t", nil, "processing times in order, e.g. 2,3,5,7")
	solveCmd.Flags().IntVarP(&solveMachines, "machines", "m", 0, "number of identical machines")
	solveCmd.Flags().BoolVar(&solveRelaxed, "relaxed", false, "skip the production size bounds (for small instances)")
	solveCmd.Flags().BoolVar(&solveOracle, "oracle", false, "also solve with the integer-program oracle and compare")
	solveCmd.Flags().StringVar(&solveJSONDir, "json", "", "directory for the JSON result document")
	solveCmd.Flags().StringVar(&solveName, "name", "cli", "test name stored in the result document")
	solveCmd.Flags().DurationVar(&solveTimeLimit, "time-limit", 0, "oracle time limit (overrides config)")
	solveCmd.Flags().Float64Var(&solveGap, "gap", -1, "oracle relative MIP gap in [0,1] (overrides config)")
	_ = solveCmd.MarkFlagRequired("times")
	_ = solveCmd.MarkFlagRequired("machines")
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	policy := cfg.ValidationPolicy()
	if solveRelaxed {
		policy.EnforceSizeBounds = false
	}
	oracleCfg := cfg.MIP()
	if cmd.Flags().Changed("time-limit") {
		oracleCfg.TimeLimit = solveTimeLimit
	}
	if cmd.Flags().Changed("gap") {
		oracleCfg.MIPGap = solveGap
	}

	h, err := newHarness(policy, oracleCfg, solveOracle)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}

	inst := &chain.Instance{Times: solveTimes, Machines: solveMachines}
	rep := h.Run(ctx, inst)

	if rep.Primary.Status == opt.StatusInvalidInput {
		suggestions := []string{"Fix the instance and retry"}
		if !solveRelaxed {
			suggestions = append(suggestions, "Use --relaxed for instances below the production size bounds")
		}
		return printer.Error("Invalid instance", rep.PrimaryErr.Error(), suggestions)
	}

	out := cmd.OutOrStdout()
	printOutcome(out, "pseudo-polynomial", inst, rep.Primary)
	if rep.Oracle != nil {
		printOutcome(out, "milp", inst, *rep.Oracle)
		if rep.OracleErr != nil {
			printer.Warning("oracle: %v\n", rep.OracleErr)
		}
		printVerdict(rep)
	}

	sink, closeSinks, err := openSinks(ctx, solveJSONDir)
	if err != nil {
		return printer.Error("Cannot store results", err.Error(), nil)
	}
	defer closeSinks()
	if sink != nil {
		if err := sink.Save(ctx, results.FromReport(solveName, inst, nil, rep)); err != nil {
			return printer.Error("Cannot store results", err.Error(), nil)
		}
		printer.Success("result saved\n")
	}
	return nil
}

func printOutcome(w io.Writer, title string, inst *chain.Instance, o opt.Outcome) {
	fmt.Fprintf(w, "%s: status=%s", title, o.Status)
	if !o.Valid() {
		fmt.Fprintf(w, " elapsed=%s\n", o.Elapsed)
		return
	}
	fmt.Fprintf(w, " makespan=%d elapsed=%s", o.Makespan, o.Elapsed)
	if o.OracleCalls > 0 {
		fmt.Fprintf(w, " oracle_calls=%d", o.OracleCalls)
	}
	if o.Status != opt.StatusOptimal || o.Nodes > 0 {
		fmt.Fprintf(w, " gap=%.4f nodes=%d", o.Gap, o.Nodes)
	}
	fmt.Fprintln(w)

	for b, block := range o.Partition {
		load := 0
		if b < len(o.Loads) {
			load = o.Loads[b]
		}
		fmt.Fprintf(w, "  machine %d: jobs %d..%d load=%d %v\n",
			o.Machine(b), block[0], block[len(block)-1], load, timesOf(inst, block))
	}
}

func timesOf(inst *chain.Instance, block []int) []int {
	out := make([]int, len(block))
	for i, j := range block {
		out[i] = inst.Times[j]
	}
	return out
}

func printVerdict(rep compare.Report) {
	v := rep.Verdict
	switch {
	case v.MakespansMatch:
		printer.Success("makespans match (speedup %.1fx)\n", v.SpeedRatio)
	case v.Difference != nil:
		printer.Failure("makespans differ by %d\n", *v.Difference)
	default:
		printer.Warning("no comparison: oracle status %s\n", rep.Oracle.Status)
	}
}
