package cli

import (
	"fmt"
	"strings"

	"github.com/smartflow-ai/smartflow/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Flexoki Dark, matching the TUI's default theme.
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	gainStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	lossStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	borderStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// Table is a bordered text table. A row holding the single cell "---" draws
// a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// LeftCols is how many leading columns are left-aligned; the rest are
	// right-aligned figures. Zero means 1.
	LeftCols int
}

const separatorRow = "---"

func (t Table) columns() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n && !(len(row) == 1 && row[0] == separatorRow) {
			n = len(row)
		}
	}
	return n
}

// widths measures display cells, so labels with wide runes stay aligned.
func (t Table) widths(cols int) []int {
	w := make([]int, cols)
	fit := func(row []string) {
		for i, cell := range row {
			if cw := lipgloss.Width(cell); i < cols && cw > w[i] {
				w[i] = cw
			}
		}
	}
	fit(t.Headers)
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == separatorRow {
			continue
		}
		fit(row)
	}
	return w
}

// rule draws a horizontal border such as ╭──┬──╮.
func rule(b *strings.Builder, widths []int, left, mid, right string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	b.WriteString(borderStyle.Render(left + strings.Join(parts, mid) + right))
	b.WriteByte('\n')
}

func pad(cell string, width int, left bool) string {
	gap := width - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if left {
		return " " + cell + strings.Repeat(" ", gap) + " "
	}
	return " " + strings.Repeat(" ", gap) + cell + " "
}

func cells(b *strings.Builder, row []string, widths []int, leftCols int, style lipgloss.Style) {
	bar := borderStyle.Render("│")
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		b.WriteString(style.Render(pad(cell, w, i < leftCols)))
		b.WriteString(bar)
	}
	b.WriteByte('\n')
}

// RenderTable renders t with rounded borders.
func RenderTable(t Table) string {
	cols := t.columns()
	if cols == 0 {
		return ""
	}
	widths := t.widths(cols)
	leftCols := t.LeftCols
	if leftCols <= 0 {
		leftCols = 1
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	rule(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		cells(&b, t.Headers, widths, leftCols, headerStyle)
		rule(&b, widths, "├", "┼", "┤")
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == separatorRow {
			rule(&b, widths, "├", "┼", "┤")
			continue
		}
		cells(&b, row, widths, leftCols, valueStyle)
	}
	rule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

// RenderBar renders a horizontal bar scaled against maxValue.
func RenderBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen > maxWidth {
		barLen = maxWidth
	}
	return gainStyle.Render(strings.Repeat("█", barLen))
}

// RenderSigned colors a currency amount by sign.
func RenderSigned(v float64) string {
	if v < 0 {
		return lossStyle.Render(FormatCurrency(v))
	}
	return gainStyle.Render(FormatCurrency(v))
}

// RenderNotice renders a muted one-line notice, used for neutral outcomes.
func RenderNotice(msg string) string {
	return "  " + mutedStyle.Render(msg) + "\n"
}

// RenderWarning renders a highlighted one-line warning.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render(msg) + "\n"
}

// ProjectionRows returns the label/value rows shared by every projection view.
func ProjectionRows(p model.Projection) [][]string {
	return [][]string{
		{"Additional leads / mo", FormatNumber(int64(p.AdditionalLeads))},
		{"Additional customers / mo", FormatNumber(int64(p.AdditionalCustomers))},
		{"Additional revenue / mo", FormatCurrency(p.AdditionalRevenue)},
		{"Time saved / week", FormatHours(p.TimeSavedHoursPerWeek)},
		{"Time savings value / mo", FormatCurrency(p.TimeSavingValueMonthly)},
		{"---"},
		{"Total monthly value", FormatCurrency(p.TotalMonthlyValue)},
		{"Plan cost / mo", FormatCost(p.PlanCost)},
		{"Net monthly ROI", FormatCurrency(p.NetMonthlyROI)},
		{"ROI", FormatROIPercent(p.ROIPercentage)},
		{"Payback period", FormatPayback(p.PaybackPeriodDays)},
	}
}

// RenderProjection renders one projection as a two-column table.
func RenderProjection(title string, p model.Projection) string {
	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   title,
		Headers: []string{"Metric", "Projected"},
		Rows:    ProjectionRows(p),
	}))
	if p.PaybackIndeterminate() {
		b.WriteString(RenderNotice("This profile projects no added value, so the plan has no payback period."))
	}
	return b.String()
}

// RenderComparison renders projections side by side, one column per plan.
// best names the plan to mark; pass "" for no marker.
func RenderComparison(projs []model.Projection, labels map[string]string, best string) string {
	if len(projs) == 0 {
		return ""
	}

	headers := []string{"Metric"}
	for _, p := range projs {
		h := labels[p.Plan]
		if h == "" {
			h = p.Plan
		}
		if p.Plan == best {
			h += " *"
		}
		headers = append(headers, h)
	}

	base := ProjectionRows(projs[0])
	rows := make([][]string, 0, len(base))
	for i, r := range base {
		if len(r) == 1 {
			rows = append(rows, r)
			continue
		}
		row := []string{r[0]}
		for _, p := range projs {
			row = append(row, ProjectionRows(p)[i][1])
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Plan comparison",
		Headers: headers,
		Rows:    rows,
	}))

	maxValue := 0.0
	for _, p := range projs {
		if p.TotalMonthlyValue > maxValue {
			maxValue = p.TotalMonthlyValue
		}
	}
	for i, p := range projs {
		fmt.Fprintf(&b, "  %-12s %s %s\n", headers[i+1], RenderBar(p.TotalMonthlyValue, maxValue, 30), RenderSigned(p.NetMonthlyROI))
	}
	if best != "" {
		b.WriteString(RenderNotice("* highest net monthly ROI"))
	}
	return b.String()
}

// RenderCatalog renders the business types and plans.
func RenderCatalog(types []model.BusinessType, plans []model.Plan) string {
	typeRows := make([][]string, 0, len(types))
	for _, bt := range types {
		typeRows = append(typeRows, []string{
			bt.Key, bt.Label, FormatMultiplier(bt.LeadMultiplier), FormatCost(bt.DefaultAverageOrderValue),
		})
	}
	planRows := make([][]string, 0, len(plans))
	for _, p := range plans {
		planRows = append(planRows, []string{
			p.Key, p.Label, FormatCost(p.MonthlyCost), FormatMultiplier(p.LeadMultiplier),
			fmt.Sprintf("%g%%", p.TimeSavingsPercent),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:    "Business types",
		Headers:  []string{"Key", "Label", "Lead mult.", "Avg order"},
		LeftCols: 2,
		Rows:     typeRows,
	}))
	b.WriteString("\n")
	b.WriteString(RenderTable(Table{
		Title:    "Plans",
		Headers:  []string{"Key", "Label", "Cost / mo", "Lead mult.", "Time saved"},
		LeftCols: 2,
		Rows:     planRows,
	}))
	return b.String()
}
