// Package tui provides the interactive Bubble Tea ROI calculator.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/store"
	"github.com/smartflow-ai/smartflow/internal/tui/components"
	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ScenarioSaver persists calculator scenarios.
type ScenarioSaver interface {
	SaveScenario(ctx context.Context, sc store.Scenario) (store.Scenario, error)
}

// Options configures a new App.
type Options struct {
	Catalog config.Catalog
	Store   ScenarioSaver // nil disables ctrl+s
	Profile model.BusinessProfile
	Plan    string
	// Setup runs the first-run wizard before the calculator.
	Setup bool
	// SaveConfig persists wizard answers; required when Setup is set.
	SaveConfig func(SetupValues) error
}

// SavedMsg is sent when a scenario save finishes.
type SavedMsg struct {
	Scenario store.Scenario
	Err      error
}

const (
	fieldType = iota
	fieldPlan
	fieldRevenue
	fieldAOV
	fieldLeads
	fieldConversion
	fieldHours
	fieldRate
	fieldCount // sentinel
)

const (
	tabCalculator = 0
	tabCompare    = 1
)

const (
	minTerminalWidth = 60
	wideWidth        = 110
	maxContentWidth  = 160
	minContentHeight = 5
	formCardWidth    = 52
)

// App is the root Bubble Tea model.
type App struct {
	catalog config.Catalog
	types   []model.BusinessType
	plans   []model.Plan
	saver   ScenarioSaver

	// Form state
	typeIdx int
	planIdx int
	inputs  []textinput.Model // one per numeric field, indexed by field-fieldRevenue
	focus   int

	// Results of the last recompute
	proj     *model.Projection
	projErr  error
	inputErr string
	compare  []model.Projection
	best     string

	// UI state
	width     int
	height    int
	activeTab int

	// Scenario save prompt
	saving    bool
	nameInput textinput.Model
	status    string
	statusErr bool

	// First-run setup (huh form)
	setupForm  *huh.Form
	setupVals  *SetupValues
	saveConfig func(SetupValues) error
}

// NewApp creates a calculator pre-filled from opts.
func NewApp(opts Options) App {
	a := App{
		catalog: opts.Catalog,
		types:   opts.Catalog.BusinessTypeList(),
		plans:   opts.Catalog.PlanList(),
		saver:   opts.Store,
		focus:   fieldRevenue,
	}

	if bt, ok := opts.Catalog.BusinessType(opts.Profile.BusinessType); ok {
		a.typeIdx = indexOf(a.types, func(t model.BusinessType) bool { return t.Key == bt.Key })
	}
	if p, ok := opts.Catalog.Plan(opts.Plan); ok {
		a.planIdx = indexOf(a.plans, func(x model.Plan) bool { return x.Key == p.Key })
	}

	a.inputs = make([]textinput.Model, fieldCount-fieldRevenue)
	for f := fieldRevenue; f < fieldCount; f++ {
		ti := textinput.New()
		ti.CharLimit = 16
		ti.Width = 14
		ti.Prompt = ""
		a.inputs[f-fieldRevenue] = ti
	}
	pr := opts.Profile
	a.input(fieldRevenue).SetValue(formatInput(pr.MonthlyRevenue))
	a.input(fieldAOV).SetValue(formatInput(pr.AverageOrderValue))
	a.input(fieldLeads).SetValue(formatInput(pr.CurrentMonthlyLeads))
	a.input(fieldConversion).SetValue(formatPercentInput(pr.ConversionRate))
	a.input(fieldHours).SetValue(formatInput(pr.HoursPerWeekOnSocial))
	a.input(fieldRate).SetValue(formatInput(pr.EmployeeHourlyRate))
	a.updatePlaceholders()
	a.setFocus(fieldRevenue)

	name := textinput.New()
	name.Placeholder = "scenario name"
	name.CharLimit = 64
	name.Width = 30
	a.nameInput = name

	if opts.Setup && opts.SaveConfig != nil {
		vals := SetupValues{
			BusinessType: a.currentType().Key,
			Plan:         a.currentPlan().Key,
			Theme:        theme.Active.Name,
		}
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals, opts.Catalog)
		a.saveConfig = opts.SaveConfig
	}

	a.recompute()
	return a
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return 0
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, textinput.Blink}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) input(field int) *textinput.Model {
	return &a.inputs[field-fieldRevenue]
}

func (a App) currentType() model.BusinessType {
	if len(a.types) == 0 {
		return model.BusinessType{}
	}
	return a.types[a.typeIdx]
}

func (a App) currentPlan() model.Plan {
	if len(a.plans) == 0 {
		return model.Plan{}
	}
	return a.plans[a.planIdx]
}

func (a *App) setFocus(field int) {
	a.focus = (field + fieldCount) % fieldCount
	for f := fieldRevenue; f < fieldCount; f++ {
		if f == a.focus {
			a.input(f).Focus()
		} else {
			a.input(f).Blur()
		}
	}
}

// updatePlaceholders shows the default each optional field falls back to.
func (a *App) updatePlaceholders() {
	bt := a.currentType()
	a.input(fieldRevenue).Placeholder = "required"
	a.input(fieldAOV).Placeholder = fmt.Sprintf("%g (category)", bt.DefaultAverageOrderValue)
	a.input(fieldLeads).Placeholder = "from revenue"
	a.input(fieldConversion).Placeholder = fmt.Sprintf("%g", roi.DefaultConversionRate*100)
	a.input(fieldHours).Placeholder = fmt.Sprintf("%g", roi.DefaultHoursPerWeek)
	a.input(fieldRate).Placeholder = fmt.Sprintf("%g", roi.DefaultHourlyRate)
}

// profile parses the form into a business profile.
func (a App) profile() (model.BusinessProfile, error) {
	v := ProfileValues{
		BusinessType: a.currentType().Key,
		Plan:         a.currentPlan().Key,
		Revenue:      a.inputs[fieldRevenue-fieldRevenue].Value(),
		AverageOrder: a.inputs[fieldAOV-fieldRevenue].Value(),
		Leads:        a.inputs[fieldLeads-fieldRevenue].Value(),
		Conversion:   a.inputs[fieldConversion-fieldRevenue].Value(),
		Hours:        a.inputs[fieldHours-fieldRevenue].Value(),
		Rate:         a.inputs[fieldRate-fieldRevenue].Value(),
	}
	return v.Profile()
}

// recompute rebuilds every projection from the current form. It runs after
// each edit; nothing else refreshes the results.
func (a *App) recompute() {
	a.proj, a.projErr, a.inputErr = nil, nil, ""
	a.compare, a.best = nil, ""

	p, err := a.profile()
	if err != nil {
		a.inputErr = err.Error()
		return
	}

	proj, err := roi.Compute(p, a.currentPlan().Key, a.catalog)
	if err != nil {
		a.projErr = err
		return
	}
	a.proj = &proj

	if all, err := roi.Compare(p, a.catalog); err == nil {
		a.compare = all
		if best, ok := roi.Best(all); ok {
			a.best = best.Plan
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			a.status, a.statusErr = "save failed: "+msg.Err.Error(), true
		} else {
			a.status, a.statusErr = fmt.Sprintf("saved %q (%s)", msg.Scenario.Name, shortID(msg.Scenario.ID)), false
		}
		return a, nil

	case tea.MouseMsg:
		if a.setupForm != nil || a.saving {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.saving {
			return a.updateSavePrompt(msg)
		}
		return a.updateKey(msg)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if tab := components.TabIdxByKey(key); tab >= 0 {
		a.activeTab = tab
		return a, nil
	}

	switch key {
	case "esc":
		return a, tea.Quit
	case "ctrl+s":
		return a.startSave()
	case "tab", "down", "enter":
		a.setFocus(a.focus + 1)
		return a, nil
	case "shift+tab", "up":
		a.setFocus(a.focus - 1)
		return a, nil
	}

	switch a.focus {
	case fieldType:
		if delta := cycleDelta(key); delta != 0 && len(a.types) > 0 {
			a.typeIdx = (a.typeIdx + delta + len(a.types)) % len(a.types)
			a.updatePlaceholders()
			a.recompute()
		}
		return a, nil
	case fieldPlan:
		if delta := cycleDelta(key); delta != 0 && len(a.plans) > 0 {
			a.planIdx = (a.planIdx + delta + len(a.plans)) % len(a.plans)
			a.recompute()
		}
		return a, nil
	}

	in := a.input(a.focus)
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		a.recompute()
		a.status = ""
	}
	return a, cmd
}

func cycleDelta(key string) int {
	switch key {
	case "left", "h":
		return -1
	case "right", "l", " ":
		return 1
	}
	return 0
}

func (a App) startSave() (tea.Model, tea.Cmd) {
	switch {
	case a.saver == nil:
		a.status, a.statusErr = "scenario storage is not available", true
		return a, nil
	case a.proj == nil:
		a.status, a.statusErr = "nothing to save yet", true
		return a, nil
	}
	a.saving = true
	a.nameInput.SetValue("")
	a.nameInput.Focus()
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	return a, textinput.Blink
}

func (a App) updateSavePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.saving = false
		a.nameInput.Blur()
		a.setFocus(a.focus)
		return a, nil
	case "enter":
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			return a, nil
		}
		p, err := a.profile()
		if err != nil {
			return a, nil
		}
		a.saving = false
		a.nameInput.Blur()
		a.setFocus(a.focus)
		a.status, a.statusErr = "saving...", false
		return a, saveScenarioCmd(a.saver, store.Scenario{
			Name:    name,
			Plan:    a.currentPlan().Key,
			Profile: p,
		})
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func saveScenarioCmd(saver ScenarioSaver, sc store.Scenario) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		saved, err := saver.SaveScenario(ctx, sc)
		return SavedMsg{Scenario: saved, Err: err}
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := *a.setupVals
		if err := a.saveConfig(vals); err != nil {
			a.status, a.statusErr = "could not save config: "+err.Error(), true
		}
		theme.SetActive(vals.Theme)
		a.applySetup(vals)
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup moves the form onto the wizard's defaults.
func (a *App) applySetup(v SetupValues) {
	if bt, ok := a.catalog.BusinessType(v.BusinessType); ok {
		a.typeIdx = indexOf(a.types, func(t model.BusinessType) bool { return t.Key == bt.Key })
	}
	if p, ok := a.catalog.Plan(v.Plan); ok {
		a.planIdx = indexOf(a.plans, func(x model.Plan) bool { return x.Key == p.Key })
	}
	if a.input(fieldHours).Value() == "" {
		a.input(fieldHours).SetValue(v.HoursPerWeek)
	}
	if a.input(fieldRate).Value() == "" {
		a.input(fieldRate).SetValue(v.HourlyRate)
	}
	a.updatePlaceholders()
	a.recompute()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.TextMuted).
		Render(fmt.Sprintf("Terminal too narrow (%d cols). Need at least %d.", a.width, minTerminalWidth))
	return lipgloss.Place(a.width, max(a.height, 3), lipgloss.Center, lipgloss.Center, msg)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := a.renderStatus(w)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabCalculator:
		content = a.renderCalculatorTab(cw)
	case tabCompare:
		content = a.renderCompareTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, max(h, lipgloss.Height(output)), lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderStatus(w int) string {
	if a.saving {
		t := theme.Active
		label := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(" Save as: ")
		hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("  enter save  esc cancel")
		line := label + a.nameInput.View() + hint
		return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(line)
	}
	hints := "tab/↑↓ field  ←→ choose  ctrl+s save  esc quit"
	if a.saver == nil {
		hints = "tab/↑↓ field  ←→ choose  esc quit"
	}
	return components.RenderStatusBar(w, hints, a.status, a.statusErr)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Must match RenderTabBar's layout exactly.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
