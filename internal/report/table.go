package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const missing = "---"

// ConsoleTable печатает строки выровненной таблицей.
// Возвращает число напечатанных строк.
func ConsoleTable(w io.Writer, rows []Row) int {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found")
		return 0
	}

	format := "%-28s %6s %4s %8s %10s %6s %10s %8s %-10s %10s %5s\n"
	fmt.Fprintf(w, format, "TEST", "N", "M", "MS_MILP", "MS_PSEUDO", "DELTA", "MILP_CPU", "GAP", "STATUS", "SPEEDUP", "MATCH")
	fmt.Fprintf(w, format, "----------------------------", "------", "----", "--------", "----------", "------", "----------", "--------", "----------", "----------", "-----")

	for _, r := range rows {
		fmt.Fprintf(w, format,
			truncate(r.Name, 28),
			strconv.Itoa(r.N),
			strconv.Itoa(r.M),
			makespanCell(r.MILPMakespan, r.HasMILP),
			makespanCell(r.PseudoMakespan, r.HasPseudo),
			deltaCell(r),
			timeCell(r.MILPTime),
			gapCell(r.MILPGap, "%"),
			r.MILPStatus,
			speedupCell(r.Speedup),
			matchCell(r.Match, "yes", "no"),
		)
	}

	noun := "result"
	if len(rows) != 1 {
		noun = "results"
	}
	fmt.Fprintf(w, "\n%d %s\n", len(rows), noun)
	return len(rows)
}

// LatexTable пишет таблицу в формате LaTeX tabular.
func LatexTable(w io.Writer, rows []Row) error {
	ew := &errWriter{w: w}
	ew.printf("\\begin{table}[ht]\n")
	ew.printf("\\centering\n")
	ew.printf("\\begin{tabular}{|c|c|c|c|c|c|c|c|c|c|}\n")
	ew.printf("\\hline\n")
	ew.printf("\\textbf{$n$} & \\textbf{$m$} & \\textbf{$ms_{milp}$} & \\textbf{$ms_{pseudo}$} & ")
	ew.printf("\\textbf{$\\Delta$} & \\textbf{$milp_{cpu}$} & ")
	ew.printf("\\textbf{$milp_{gap}$} & \\textbf{$milp_{status}$} & \\textbf{$speedup$} & \\textbf{$match$} \\\\\n")
	ew.printf("\\hline\n")

	for _, r := range rows {
		ew.printf("%d & %d & %s & %s & %s & %s & %s & %s & %s & %s \\\\\n",
			r.N, r.M,
			makespanCell(r.MILPMakespan, r.HasMILP),
			makespanCell(r.PseudoMakespan, r.HasPseudo),
			deltaCell(r),
			timeCell(r.MILPTime),
			latexGap(r.MILPGap),
			latexEscape(r.MILPStatus),
			speedupCell(r.Speedup),
			matchCell(r.Match, "$\\checkmark$", "$\\times$"),
		)
		ew.printf("\\hline\n")
	}

	ew.printf("\\end{tabular}\n")
	ew.printf("\\caption{Comparison of MILP and Pseudo-Polynomial Algorithm Results for Job Scheduling}\n")
	ew.printf("\\label{tab:results_comparison}\n")
	ew.printf("\\vspace{0.2cm}\n")
	ew.printf("\\footnotesize\n")
	ew.printf("\\textit{Note:} $\\Delta = ms_{milp} - ms_{pseudo}$; Speedup = $t_{milp}/t_{pseudo}$; Gap in \\%%; `---' indicates missing value.\n")
	ew.printf("\\end{table}\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func makespanCell(v int, ok bool) string {
	if !ok {
		return missing
	}
	return strconv.Itoa(v)
}

func deltaCell(r Row) string {
	d, ok := r.Delta()
	if !ok {
		return missing
	}
	return fmt.Sprintf("%+d", d)
}

func timeCell(sec float64) string {
	switch {
	case sec < 0:
		return missing
	case sec < 0.001:
		return strconv.FormatFloat(sec, 'e', 1, 64)
	case sec < 1:
		return strconv.FormatFloat(sec, 'f', 3, 64)
	case sec < 10:
		return strconv.FormatFloat(sec, 'f', 2, 64)
	default:
		return strconv.FormatFloat(sec, 'f', 1, 64)
	}
}

func gapCell(gap float64, pct string) string {
	switch {
	case gap < 0:
		return missing
	case gap < 0.0001:
		return "~0" + pct
	case gap < 0.01:
		return strconv.FormatFloat(gap*100, 'f', 3, 64) + pct
	default:
		return strconv.FormatFloat(gap*100, 'f', 2, 64) + pct
	}
}

func latexGap(gap float64) string {
	if gap >= 0 && gap < 0.0001 {
		return "$\\approx$0\\%"
	}
	return gapCell(gap, "\\%")
}

func speedupCell(s float64) string {
	switch {
	case s <= 0 || math.IsInf(s, 0) || math.IsNaN(s):
		return missing
	case s < 1:
		return strconv.FormatFloat(s, 'f', 3, 64)
	case s < 10:
		return strconv.FormatFloat(s, 'f', 2, 64)
	case s < 1000:
		return strconv.FormatFloat(s, 'f', 1, 64)
	case s < 1e6:
		return strconv.FormatFloat(s, 'f', 0, 64)
	default:
		return strconv.FormatFloat(s, 'e', 1, 64)
	}
}

func matchCell(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func latexEscape(s string) string {
	return strings.ReplaceAll(s, "_", "\\_")
}
