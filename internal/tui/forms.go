package tui

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

func businessTypeOptions(cat config.Catalog) []huh.Option[string] {
	types := cat.BusinessTypeList()
	opts := make([]huh.Option[string], len(types))
	for i, bt := range types {
		opts[i] = huh.NewOption(bt.Label, bt.Key)
	}
	return opts
}

func planOptions(cat config.Catalog) []huh.Option[string] {
	plans := cat.PlanList()
	opts := make([]huh.Option[string], len(plans))
	for i, p := range plans {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s/mo)", p.Label, cli.FormatCost(p.MonthlyCost)), p.Key)
	}
	return opts
}

// SetupValues holds the answers of the setup wizard as typed.
type SetupValues struct {
	BusinessType string
	Plan         string
	HoursPerWeek string
	HourlyRate   string
	Theme        string
}

// SetupValuesFrom pre-fills the wizard from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BusinessType: cfg.General.DefaultBusinessType,
		Plan:         cfg.General.DefaultPlan,
		HoursPerWeek: formatInput(cfg.General.HoursPerWeek),
		HourlyRate:   formatInput(cfg.General.HourlyRate),
		Theme:        cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	hours, err := ParseAmount(v.HoursPerWeek)
	if err != nil {
		return fmt.Errorf("hours per week: %w", err)
	}
	rate, err := ParseAmount(v.HourlyRate)
	if err != nil {
		return fmt.Errorf("hourly rate: %w", err)
	}
	cfg.General.DefaultBusinessType = v.BusinessType
	cfg.General.DefaultPlan = v.Plan
	cfg.General.HoursPerWeek = hours
	cfg.General.HourlyRate = rate
	cfg.Appearance.Theme = v.Theme
	return nil
}

// NewSetupForm builds the first-run wizard bound to v.
func NewSetupForm(v *SetupValues, cat config.Catalog) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to SmartFlow").
				Description("Pick the defaults the calculator starts with.\nEverything here can be changed per projection."),
			huh.NewSelect[string]().
				Title("Business type").
				Options(businessTypeOptions(cat)...).
				Value(&v.BusinessType),
			huh.NewSelect[string]().
				Title("Plan").
				Options(planOptions(cat)...).
				Value(&v.Plan),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Hours per week on social media").
				Placeholder(fmt.Sprintf("%g", roi.DefaultHoursPerWeek)).
				Validate(validateAmount).
				Value(&v.HoursPerWeek),
			huh.NewInput().
				Title("Employee hourly rate").
				Placeholder(cli.FormatCost(roi.DefaultHourlyRate)).
				Validate(validateAmount).
				Value(&v.HourlyRate),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

// ProfileValues holds the answers of the interactive profile form as typed.
// Conversion is a percentage.
type ProfileValues struct {
	BusinessType string
	Plan         string
	Revenue      string
	AverageOrder string
	Leads        string
	Conversion   string
	Hours        string
	Rate         string
}

// ProfileValuesFrom pre-fills the form from an existing profile.
func ProfileValuesFrom(p model.BusinessProfile, plan string) ProfileValues {
	return ProfileValues{
		BusinessType: p.BusinessType,
		Plan:         plan,
		Revenue:      formatInput(p.MonthlyRevenue),
		AverageOrder: formatInput(p.AverageOrderValue),
		Leads:        formatInput(p.CurrentMonthlyLeads),
		Conversion:   formatPercentInput(p.ConversionRate),
		Hours:        formatInput(p.HoursPerWeekOnSocial),
		Rate:         formatInput(p.EmployeeHourlyRate),
	}
}

// Profile parses the answers into a business profile.
func (v ProfileValues) Profile() (model.BusinessProfile, error) {
	p := model.BusinessProfile{BusinessType: v.BusinessType}
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"monthly revenue", v.Revenue, &p.MonthlyRevenue},
		{"average order value", v.AverageOrder, &p.AverageOrderValue},
		{"current leads", v.Leads, &p.CurrentMonthlyLeads},
		{"hours per week", v.Hours, &p.HoursPerWeekOnSocial},
		{"hourly rate", v.Rate, &p.EmployeeHourlyRate},
	}
	for _, f := range fields {
		n, err := ParseAmount(f.raw)
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = n
	}
	conv, err := ParsePercent(v.Conversion)
	if err != nil {
		return p, fmt.Errorf("conversion rate: %w", err)
	}
	p.ConversionRate = conv
	return p, nil
}

// NewProfileForm builds a form that asks for a business profile and plan.
func NewProfileForm(v *ProfileValues, cat config.Catalog) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Business type").
				Options(businessTypeOptions(cat)...).
				Value(&v.BusinessType),
			huh.NewSelect[string]().
				Title("Plan").
				Options(planOptions(cat)...).
				Value(&v.Plan),
			huh.NewInput().
				Title("Monthly revenue").
				Placeholder("10000").
				Validate(validateRequiredAmount).
				Value(&v.Revenue),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Optional").
				Description("Leave blank to use the category or standard defaults."),
			huh.NewInput().Title("Average order value").Validate(validateAmount).Value(&v.AverageOrder),
			huh.NewInput().Title("Current monthly leads").Validate(validateAmount).Value(&v.Leads),
			huh.NewInput().
				Title("Conversion rate (%)").
				Placeholder(fmt.Sprintf("%g", roi.DefaultConversionRate*100)).
				Validate(validateAmount).
				Value(&v.Conversion),
			huh.NewInput().
				Title("Hours per week on social media").
				Placeholder(fmt.Sprintf("%g", roi.DefaultHoursPerWeek)).
				Validate(validateAmount).
				Value(&v.Hours),
			huh.NewInput().
				Title("Employee hourly rate").
				Placeholder(fmt.Sprintf("%g", roi.DefaultHourlyRate)).
				Validate(validateAmount).
				Value(&v.Rate),
		),
	)
}
