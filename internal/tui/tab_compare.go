package tui

import (
	"fmt"
	"strings"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/tui/components"
	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCompareTab(cw int) string {
	t := theme.Active

	if len(a.compare) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Compare plans", muted.Render(a.neutralPrompt()), cw, false)
	}

	labels := make(map[string]string, len(a.plans))
	labelW := 0
	for _, p := range a.plans {
		labels[p.Key] = p.Label
		if len(p.Label) > labelW {
			labelW = len(p.Label)
		}
	}

	maxNet := 0.0
	for _, p := range a.compare {
		if p.NetMonthlyROI > maxNet {
			maxNet = p.NetMonthlyROI
		}
	}

	inner := components.CardInnerWidth(cw)
	barW := inner - labelW - 14
	if barW < 10 {
		barW = 10
	}

	var bars strings.Builder
	for i, p := range a.compare {
		pct := 0.0
		if maxNet > 0 {
			pct = p.NetMonthlyROI / maxNet
		}
		bars.WriteString(components.ShareBar(labels[p.Plan], cli.FormatCurrency(p.NetMonthlyROI), pct, p.Plan == a.best, labelW, barW))
		if i < len(a.compare)-1 {
			bars.WriteString("\n")
		}
	}
	barCard := components.ContentCard("Net monthly ROI by plan", bars.String(), cw, false)

	cardWidths := components.LayoutRow(cw, len(a.compare))
	cards := make([]string, len(a.compare))
	for i, p := range a.compare {
		title := labels[p.Plan]
		if p.Plan == a.best {
			title += " ★ best"
		}
		rows := [][]string{
			{"Plan cost", cli.FormatCost(p.PlanCost)},
			{"Added revenue", cli.FormatCurrency(p.AdditionalRevenue)},
			{"Time value", cli.FormatCurrency(p.TimeSavingValueMonthly)},
			{"Net ROI", cli.FormatCurrency(p.NetMonthlyROI)},
			{"ROI", cli.FormatROIPercent(p.ROIPercentage)},
			{"Payback", cli.FormatPayback(p.PaybackPeriodDays)},
		}
		cards[i] = components.ContentCard(title, renderRows(rows, components.CardInnerWidth(cardWidths[i])), cardWidths[i], p.Plan == a.best)
	}

	note := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background).
		Render(fmt.Sprintf(" %s, revenue %s", a.currentType().Label, a.input(fieldRevenue).Value()))

	return barCard + "\n" + components.CardRow(cards) + "\n" + note
}
