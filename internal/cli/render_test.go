package cli

import (
	"strings"
	"testing"

	"github.com/smartflow-ai/smartflow/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func sampleProjection() model.Projection {
	return model.Projection{
		BusinessType:           "ecommerce",
		Plan:                   "growth",
		AdditionalLeads:        315,
		AdditionalCustomers:    66,
		AdditionalRevenue:      5620,
		TimeSavedHoursPerWeek:  3,
		TimeSavingValueMonthly: 325,
		TotalMonthlyValue:      5944,
		PlanCost:               97,
		NetMonthlyROI:          5847,
		ROIPercentage:          intPtr(6028),
		PaybackPeriodDays:      intPtr(0),
		Raw:                    model.RawProjection{NetROI: 5847.35},
	}
}

func TestRenderProjection(t *testing.T) {
	out := RenderProjection("Growth", sampleProjection())

	for _, want := range []string{"Growth", "$5,620", "3.0 h", "$5,944", "$97", "6,028%", "< 1 day"} {
		if !strings.Contains(out, want) {
			t.Fatalf("RenderProjection output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "no payback period") {
		t.Fatal("determinate payback rendered the indeterminate notice")
	}
}

func TestRenderProjection_IndeterminatePayback(t *testing.T) {
	p := sampleProjection()
	p.PaybackPeriodDays = nil

	out := RenderProjection("Growth", p)
	if !strings.Contains(out, "n/a (no projected value)") {
		t.Fatalf("missing neutral payback text:\n%s", out)
	}
	if !strings.Contains(out, "no payback period") {
		t.Fatalf("missing indeterminate notice:\n%s", out)
	}
	if strings.Contains(out, "Inf") || strings.Contains(out, "NaN") {
		t.Fatalf("numeric artifact in output:\n%s", out)
	}
}

func TestRenderComparison_MarksBest(t *testing.T) {
	growth := sampleProjection()
	scale := sampleProjection()
	scale.Plan = "scale"
	scale.TotalMonthlyValue = 7599
	scale.NetMonthlyROI = 7352

	out := RenderComparison([]model.Projection{growth, scale}, map[string]string{"growth": "Growth", "scale": "Scale"}, "scale")
	if !strings.Contains(out, "Scale *") {
		t.Fatalf("best plan not marked:\n%s", out)
	}
	if strings.Contains(out, "Growth *") {
		t.Fatalf("wrong plan marked:\n%s", out)
	}
	if !strings.Contains(out, "$7,599") || !strings.Contains(out, "$5,944") {
		t.Fatalf("comparison missing totals:\n%s", out)
	}
}

func TestRenderTable_SeparatorRow(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x", "1"}, {"---"}, {"y", "2"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top, header, header sep, x, sep, y, bottom
	if len(lines) != 7 {
		t.Fatalf("RenderTable produced %d lines, want 7:\n%s", len(lines), out)
	}
}

func TestRenderTable_AlignsByDisplayWidth(t *testing.T) {
	out := RenderTable(Table{
		Headers:  []string{"Name", "Type", "Net"},
		Rows:     [][]string{{"Café Ünï", "restaurant", "$12"}, {"shop", "ecommerce", "$5,847"}},
		LeftCols: 2,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if got := lipgloss.Width(l); got != want {
			t.Fatalf("line %d is %d cells wide, want %d:\n%s", i, got, want, out)
		}
	}
	if !strings.Contains(out, "    $12 ") {
		t.Fatalf("figures should be right-aligned:\n%s", out)
	}
	if !strings.Contains(out, " shop     ") {
		t.Fatalf("names should be left-aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if out := RenderTable(Table{}); out != "" {
		t.Fatalf("empty table rendered %q", out)
	}
}
