package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/smartflow-ai/smartflow/internal/batch"
	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagBatchPlan string
	flagBatchJSON bool
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Project every profile in a JSONL file",
	Long: `Project every profile in a JSONL file, one object per line:

  {"name":"Main St Bakery","plan":"growth","profile":{"business_type":"restaurant","monthly_revenue":18000}}

Lines without a plan use --plan, or the configured default plan.
Blank lines and lines starting with # are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&flagBatchPlan, "plan", "p", "", "Plan for lines that name none (default from config)")
	batchCmd.Flags().BoolVar(&flagBatchJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(batchCmd)
}

type batchLine struct {
	Line       int                  `json:"line"`
	Name       string               `json:"name,omitempty"`
	Projection *model.Projection    `json:"projection,omitempty"`
	Error      *roi.ValidationError `json:"error,omitempty"`
}

type batchOutput struct {
	Results     []batchLine `json:"results"`
	ParseErrors int         `json:"parse_errors"`
	BadLines    []int       `json:"bad_lines,omitempty"`
	Projected   int         `json:"projected"`
	Rejected    int         `json:"rejected"`
	TotalNetROI float64     `json:"total_net_roi"`
	Best        *batchLine  `json:"best,omitempty"`
}

func runBatch(_ *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	parsed := batch.ParseFile(args[0])
	if parsed.Err != nil {
		return fmt.Errorf("reading %s: %w", args[0], parsed.Err)
	}
	if parsed.ParseErrors > 0 {
		e.log.Warn("skipped malformed lines",
			zap.String("file", args[0]),
			zap.Int("count", parsed.ParseErrors),
			zap.Ints("lines", parsed.BadLines),
		)
	}

	plan := flagBatchPlan
	if plan == "" {
		plan = e.cfg.General.DefaultPlan
	}

	progressFn := func(current, total int) {
		if flagQuiet || flagBatchJSON {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Projecting [%d/%d]", current, total)
		}
	}

	results := batch.Run(parsed.Entries, e.catalog, plan, progressFn)
	sum := batch.Summarize(results)
	if !flagQuiet && !flagBatchJSON && len(results) > 0 {
		fmt.Fprintf(os.Stderr, "\r  Projected %s profiles    \n", cli.FormatNumber(int64(sum.Total)))
	}
	e.log.Debug("batch projected",
		zap.Int("projected", sum.Projected),
		zap.Int("rejected", sum.Rejected),
		zap.Float64("total_net_roi", sum.TotalNetROI),
	)

	if flagBatchJSON {
		return writeJSON(newBatchOutput(parsed, results, sum))
	}

	fmt.Println()
	fmt.Print(renderBatch(e, results, sum))
	if parsed.ParseErrors > 0 {
		fmt.Print(cli.RenderWarning(fmt.Sprintf("%d malformed line(s) skipped: %s", parsed.ParseErrors, joinInts(parsed.BadLines))))
	}
	return nil
}

func toBatchLine(r batch.Result) batchLine {
	l := batchLine{Line: r.Entry.Line, Name: r.Entry.Name, Projection: r.Projection}
	if ve, ok := roi.AsValidation(r.Err); ok {
		l.Error = ve
	}
	return l
}

func newBatchOutput(parsed batch.ParseResult, results []batch.Result, sum batch.Summary) batchOutput {
	out := batchOutput{
		Results:     make([]batchLine, 0, len(results)),
		ParseErrors: parsed.ParseErrors,
		BadLines:    parsed.BadLines,
		Projected:   sum.Projected,
		Rejected:    sum.Rejected,
		TotalNetROI: sum.TotalNetROI,
	}
	for _, r := range results {
		out.Results = append(out.Results, toBatchLine(r))
	}
	if sum.Best != nil {
		best := toBatchLine(*sum.Best)
		out.Best = &best
	}
	return out
}

func renderBatch(e *env, results []batch.Result, sum batch.Summary) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		name := r.Entry.Name
		if name == "" {
			name = "-"
		}
		line := strconv.Itoa(r.Entry.Line)
		if r.Err != nil {
			msg := r.Err.Error()
			if ve, ok := roi.AsValidation(r.Err); ok {
				msg = string(ve.Code)
			}
			rows = append(rows, []string{line, name, r.Entry.Profile.BusinessType, r.Entry.Plan, msg, "", ""})
			continue
		}
		p := r.Projection
		plan := p.Plan
		if v, ok := e.catalog.Plans[plan]; ok {
			plan = v.Label
		}
		rows = append(rows, []string{
			line, name, p.BusinessType, plan,
			cli.FormatCurrency(p.NetMonthlyROI),
			cli.FormatROIPercent(p.ROIPercentage),
			cli.FormatPayback(p.PaybackPeriodDays),
		})
	}

	out := cli.RenderTable(cli.Table{
		Title:    "Batch projections",
		Headers:  []string{"Line", "Name", "Type", "Plan", "Net ROI / mo", "ROI", "Payback"},
		LeftCols: 4,
		Rows:     rows,
	})

	summary := [][]string{
		{"Profiles", cli.FormatNumber(int64(sum.Total))},
		{"Projected", cli.FormatNumber(int64(sum.Projected))},
		{"Rejected", cli.FormatNumber(int64(sum.Rejected))},
	}
	codes := make([]string, 0, len(sum.RejectedBy))
	for code := range sum.RejectedBy {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	for _, code := range codes {
		summary = append(summary, []string{"  " + code, cli.FormatNumber(int64(sum.RejectedBy[roi.ErrorCode(code)]))})
	}
	summary = append(summary,
		[]string{"---"},
		[]string{"Total monthly value", cli.FormatCurrency(sum.TotalMonthlyValue)},
		[]string{"Total net ROI / mo", cli.FormatCurrency(sum.TotalNetROI)},
	)
	if sum.Best != nil {
		name := sum.Best.Entry.Name
		if name == "" {
			name = "line " + strconv.Itoa(sum.Best.Entry.Line)
		}
		summary = append(summary, []string{"Best", name})
	}

	return out + cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"", "Value"},
		Rows:    summary,
	})
}

func joinInts(ns []int) string {
	s := ""
	for i, n := range ns {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(n)
	}
	return s
}
