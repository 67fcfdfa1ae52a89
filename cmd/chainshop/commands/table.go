package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainShop/internal/printer"
	"chainShop/internal/report"
	"chainShop/internal/results"
)

const (
	sourceDir    = "dir"
	sourceSQLite = "sqlite"
	sourceRedis  = "redis"
)

var (
	tableDir    string
	tableSource string
	tableLatex  string
	tableStats  string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Summarize stored comparison results as tables",
	Long: `Read stored comparison results and print a console table of makespans,
oracle times, gaps and speedups. Optionally write a LaTeX longtable and a
statistics summary.

Examples:
  chainshop table --dir results
  chainshop table --source sqlite --latex table.tex --stats stats.txt`,
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVar(&tableDir, "dir", "", "directory of JSON result documents (config: results.dir)")
	tableCmd.Flags().StringVar(&tableSource, "source", sourceDir, "where results are read from: dir | sqlite | redis")
	tableCmd.Flags().StringVar(&tableLatex, "latex", "", "write a LaTeX table to this path (- for stdout)")
	tableCmd.Flags().StringVar(&tableStats, "stats", "", "write the statistics summary to this path (- for stdout)")
}

func runTable(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	rs, err := loadResults(cmd)
	if err != nil {
		return printer.Error("Cannot read results", err.Error(), []string{
			"Run 'chainshop validate --json <dir>' to produce results first",
			"Check --source and the results section of the config",
		})
	}
	if len(rs) == 0 {
		printer.Warning("no results found\n")
		return nil
	}

	results.SortBySize(rs)
	rows := report.Rows(rs)
	report.ConsoleTable(out, rows)

	if tableLatex != "" {
		if err := writeTo(out, tableLatex, func(w io.Writer) error { return report.LatexTable(w, rows) }); err != nil {
			return printer.Error("Cannot write LaTeX table", err.Error(), nil)
		}
	}
	if tableStats != "" {
		s := report.Summarize(rows)
		if err := writeTo(out, tableStats, func(w io.Writer) error { return report.WriteStatistics(w, s) }); err != nil {
			return printer.Error("Cannot write statistics", err.Error(), nil)
		}
	}
	return nil
}

func loadResults(cmd *cobra.Command) ([]results.TestResult, error) {
	ctx := cmd.Context()
	switch tableSource {
	case sourceDir:
		dir := cfg.Results.Dir
		if cmd.Flags().Changed("dir") {
			dir = tableDir
		}
		rs, err := results.ReadDir(dir)
		if err != nil && len(rs) > 0 {
			// битые файлы не мешают построить таблицу по остальным
			logger.Warn("some result files were skipped", zap.Error(err))
			return rs, nil
		}
		return rs, err

	case sourceSQLite:
		if cfg.Results.SQLite == "" {
			return nil, fmt.Errorf("results.sqlite is not set in the config")
		}
		store, err := results.Open(cfg.Results.SQLite)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.List(ctx)

	case sourceRedis:
		if cfg.Results.RedisAddr == "" {
			return nil, fmt.Errorf("results.redis_addr is not set in the config")
		}
		rs, err := results.NewRedisSink(&redis.Options{Addr: cfg.Results.RedisAddr}, cfg.Results.RedisPrefix)
		if err != nil {
			return nil, err
		}
		defer rs.Close()
		return rs.List(ctx)
	}
	return nil, fmt.Errorf("unknown source %q (expected dir, sqlite or redis)", tableSource)
}

// writeTo пишет в stdout команды при path == "-", иначе в файл.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printer.Success("saved %s\n", path)
	return nil
}
