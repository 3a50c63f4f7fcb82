package tui

import (
	"fmt"
	"strings"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/tui/components"
	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var fieldLabels = [fieldCount]string{
	fieldType:       "Business type",
	fieldPlan:       "Plan",
	fieldRevenue:    "Monthly revenue $",
	fieldAOV:        "Avg order value $",
	fieldLeads:      "Leads / month",
	fieldConversion: "Conversion %",
	fieldHours:      "Social hrs / week",
	fieldRate:       "Hourly rate $",
}

func (a App) renderCalculatorTab(cw int) string {
	if cw >= wideWidth {
		form := a.renderForm(formCardWidth)
		results := a.renderResults(cw - formCardWidth)
		return components.CardRow([]string{form, results})
	}
	return a.renderForm(cw) + "\n" + a.renderResults(cw)
}

func (a App) renderForm(w int) string {
	t := theme.Active
	labelW := 18

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	focusLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	arrowStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for f := 0; f < fieldCount; f++ {
		marker := "  "
		ls := labelStyle
		if f == a.focus {
			marker = "› "
			ls = focusLabel
		}
		b.WriteString(ls.Render(marker + fmt.Sprintf("%-*s", labelW, fieldLabels[f])))
		b.WriteString(space.Render(" "))

		switch f {
		case fieldType:
			b.WriteString(arrowStyle.Render("‹ ") + valueStyle.Render(a.currentType().Label) + arrowStyle.Render(" ›"))
		case fieldPlan:
			p := a.currentPlan()
			b.WriteString(arrowStyle.Render("‹ ") +
				valueStyle.Render(fmt.Sprintf("%s %s/mo", p.Label, cli.FormatCost(p.MonthlyCost))) +
				arrowStyle.Render(" ›"))
		default:
			b.WriteString(a.inputs[f-fieldRevenue].View())
		}
		if f < fieldCount-1 {
			b.WriteString("\n")
		}
	}

	if a.inputErr != "" {
		warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		b.WriteString("\n\n" + warn.Render(a.inputErr))
	}

	return components.ContentCard("Your business", b.String(), w, true)
}

// neutralPrompt explains why no figures are shown. Validation failures are
// an expected state while typing, so they are not rendered as errors.
func (a App) neutralPrompt() string {
	if a.inputErr != "" {
		return "Fix the highlighted input to see a projection."
	}
	if ve, ok := roi.AsValidation(a.projErr); ok {
		switch ve.Code {
		case roi.CodeInvalidRevenue:
			return "Enter your monthly revenue to see a projection."
		case roi.CodeCategoryNotFound:
			return "Pick a business type."
		case roi.CodePlanNotFound:
			return "Pick a plan."
		case roi.CodeOutOfRange:
			return "These figures are too large to project."
		}
	}
	if a.projErr != nil {
		return a.projErr.Error()
	}
	return "Enter your monthly revenue to see a projection."
}

func (a App) renderResults(w int) string {
	t := theme.Active

	if a.proj == nil {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Projection", muted.Render(a.neutralPrompt()), w, false)
	}
	p := *a.proj

	metrics := []components.Metric{
		{Label: "Total value / mo", Value: cli.FormatCurrency(p.TotalMonthlyValue), Tone: components.ToneNeutral},
		{Label: "Net ROI / mo", Value: cli.FormatCurrency(p.NetMonthlyROI), Tone: signedTone(p.NetMonthlyROI)},
		roiMetric(p),
		paybackMetric(p),
	}

	var cards string
	if w >= 80 {
		cards = components.MetricCardRow(metrics, w)
	} else {
		cards = components.MetricCardRow(metrics[:2], w) + "\n" + components.MetricCardRow(metrics[2:], w)
	}

	return cards + "\n" + components.ContentCard("Breakdown", renderRows(cli.ProjectionRows(p), components.CardInnerWidth(w)), w, false)
}

func signedTone(v float64) components.Tone {
	if v < 0 {
		return components.ToneLoss
	}
	return components.ToneGain
}

func roiMetric(p model.Projection) components.Metric {
	m := components.Metric{Label: "ROI", Value: cli.FormatROIPercent(p.ROIPercentage)}
	if p.ROIIndeterminate() {
		m.Tone = components.ToneMuted
		m.Note = "free plan"
		return m
	}
	m.Tone = signedTone(float64(*p.ROIPercentage))
	return m
}

func paybackMetric(p model.Projection) components.Metric {
	if p.PaybackIndeterminate() {
		return components.Metric{Label: "Payback", Value: "n/a", Note: "no projected value", Tone: components.ToneMuted}
	}
	return components.Metric{Label: "Payback", Value: cli.FormatPayback(p.PaybackPeriodDays)}
}

// renderRows lays out label/value rows; single-cell rows become rules.
func renderRows(rows [][]string, width int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			lines = append(lines, ruleStyle.Render(strings.Repeat("─", width)))
			continue
		}
		gap := width - lipgloss.Width(r[0]) - lipgloss.Width(r[1])
		if gap < 1 {
			gap = 1
		}
		lines = append(lines, labelStyle.Render(r[0]+strings.Repeat(" ", gap))+valueStyle.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}
