package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainShop/internal/cases"
	"chainShop/internal/chain"
	"chainShop/internal/printer"
	"chainShop/internal/results"
)

const (
	// оракул запускается только на экземплярах не длиннее этого
	validateOracleMaxJobs = 200
	validateTimeLimit     = 30 * time.Second
)

var (
	validateJSONDir string
	validateOracle  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the built-in cases with known optimal makespans",
	Long: `Run the built-in validation cases (relaxed size policy) and compare each
makespan with the known optimum. The integer-program oracle runs for cases with
at most 200 jobs using a 30s limit and zero gap.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateJSONDir, "json", "", "directory for JSON result documents")
	validateCmd.Flags().BoolVar(&validateOracle, "oracle", true, "cross-check with the integer-program oracle")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	policy := cfg.ValidationPolicy()
	policy.EnforceSizeBounds = false
	oracleCfg := cfg.MIP()
	oracleCfg.TimeLimit = validateTimeLimit
	oracleCfg.MIPGap = 0

	primaryOnly, err := newHarness(policy, oracleCfg, false)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}
	withOracle, err := newHarness(policy, oracleCfg, validateOracle)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}

	sink, closeSinks, err := openSinks(ctx, validateJSONDir)
	if err != nil {
		return printer.Error("Cannot store results", err.Error(), nil)
	}
	defer closeSinks()

	all := cases.Validation()
	passed := 0
	for _, c := range all {
		h := primaryOnly
		if len(c.Times) <= validateOracleMaxJobs {
			h = withOracle
		}
		inst := &chain.Instance{Times: c.Times, Machines: c.Machines}
		rep := h.Run(ctx, inst)

		ok := rep.PrimaryErr == nil && rep.Primary.Makespan == c.Expected
		if rep.Oracle != nil {
			ok = ok && rep.Matched()
		}

		line := fmt.Sprintf("%-24s n=%-3d m=%-2d expected=%-3d got=%-3d", c.Name, len(c.Times), c.Machines, c.Expected, rep.Primary.Makespan)
		if rep.Oracle != nil {
			line += fmt.Sprintf(" milp=%d (%s)", rep.Oracle.Makespan, rep.Oracle.Status)
		}
		if ok {
			passed++
			fmt.Fprintf(out, "PASS %s\n", line)
		} else {
			fmt.Fprintf(out, "FAIL %s\n", line)
			logger.Warn("validation case failed", zap.String("case", c.Name), zap.Error(rep.Err()))
		}

		if sink != nil {
			expected := c.Expected
			if err := sink.Save(ctx, results.FromReport(c.Name, inst, &expected, rep)); err != nil {
				logger.Warn("failed to save result", zap.String("case", c.Name), zap.Error(err))
			}
		}
	}

	fmt.Fprintf(out, "\n%d/%d cases passed\n", passed, len(all))
	if passed != len(all) {
		return printer.Error("Validation failed",
			fmt.Sprintf("%d of %d cases did not reach the expected makespan", len(all)-passed, len(all)),
			[]string{"Re-run with --verbose to see solver logs"})
	}
	printer.Success("all validation cases passed\n")
	return nil
}
