// Package roi projects the monthly return of a SmartFlow plan for a business.
//
// Every function here is pure: the same profile, category and plan always
// produce the same projection, so callers may recompute freely and from
// any goroutine.
package roi

import (
	"math"

	"github.com/smartflow-ai/smartflow/internal/model"
)

// Defaults substituted for optional profile fields left at zero.
const (
	DefaultConversionRate = 0.15
	DefaultHoursPerWeek   = 15.0
	DefaultHourlyRate     = 25.0
)

// Model constants.
const (
	MinBaselineLeads = 10.0
	// Share of revenue-implied orders assumed to come from leads.
	LeadSourcedShare = 0.3
	ConversionLift   = 1.4
	MaxConversion    = 0.35
	WeeksPerMonth    = 4.33
	DaysPerMonth     = 30.0
)

// Catalog resolves business types and plans by key.
type Catalog interface {
	BusinessType(key string) (model.BusinessType, bool)
	Plan(key string) (model.Plan, bool)
	PlanList() []model.Plan
}

// Compute resolves the profile's business type and the named plan in cat,
// then projects them.
func Compute(p model.BusinessProfile, planKey string, cat Catalog) (model.Projection, error) {
	bt, ok := cat.BusinessType(p.BusinessType)
	if !ok {
		return model.Projection{}, categoryNotFound(p.BusinessType)
	}
	if err := checkRevenue(p.MonthlyRevenue); err != nil {
		return model.Projection{}, err
	}
	plan, ok := cat.Plan(planKey)
	if !ok {
		return model.Projection{}, planNotFound(planKey)
	}
	return Project(p, bt, plan)
}

// Project runs the projection for an already resolved category and plan.
func Project(p model.BusinessProfile, bt model.BusinessType, plan model.Plan) (model.Projection, error) {
	if err := checkRevenue(p.MonthlyRevenue); err != nil {
		return model.Projection{}, err
	}
	if err := checkOptional(p); err != nil {
		return model.Projection{}, err
	}

	var raw model.RawProjection
	raw.AverageOrderValue = orDefault(p.AverageOrderValue, bt.DefaultAverageOrderValue)

	raw.CurrentLeads = orDefault(p.CurrentMonthlyLeads, 0)
	if raw.CurrentLeads == 0 {
		raw.CurrentLeads = baselineLeads(p.MonthlyRevenue, raw.AverageOrderValue)
	}

	raw.AdditionalLeads = raw.CurrentLeads * (bt.LeadMultiplier*plan.LeadMultiplier - 1)

	raw.BaseConversion = orDefault(p.ConversionRate, DefaultConversionRate)
	raw.ImprovedConversion = math.Min(MaxConversion, raw.BaseConversion*ConversionLift)

	raw.AdditionalCustomers = raw.AdditionalLeads * raw.ImprovedConversion
	raw.AdditionalRevenue = raw.AdditionalCustomers * raw.AverageOrderValue

	hours := orDefault(p.HoursPerWeekOnSocial, DefaultHoursPerWeek)
	rate := orDefault(p.EmployeeHourlyRate, DefaultHourlyRate)
	raw.TimeSavedHours = hours * (plan.TimeSavingsPercent / 100)
	raw.TimeSavingValue = raw.TimeSavedHours * WeeksPerMonth * rate

	raw.TotalValue = raw.AdditionalRevenue + raw.TimeSavingValue
	raw.NetROI = raw.TotalValue - plan.MonthlyCost

	if err := checkRaw(raw); err != nil {
		return model.Projection{}, err
	}
	leads, ok := toInt(raw.AdditionalLeads)
	if !ok {
		return model.Projection{}, outOfRange("additional_leads", raw.AdditionalLeads)
	}
	customers, ok := toInt(raw.AdditionalCustomers)
	if !ok {
		return model.Projection{}, outOfRange("additional_customers", raw.AdditionalCustomers)
	}

	proj := model.Projection{
		BusinessType:           bt.Key,
		Plan:                   plan.Key,
		AdditionalLeads:        leads,
		AdditionalCustomers:    customers,
		AdditionalRevenue:      roundHalfUp(raw.AdditionalRevenue),
		TimeSavedHoursPerWeek:  roundTenths(raw.TimeSavedHours),
		TimeSavingValueMonthly: roundHalfUp(raw.TimeSavingValue),
		TotalMonthlyValue:      roundHalfUp(raw.TotalValue),
		PlanCost:               plan.MonthlyCost,
		NetMonthlyROI:          roundHalfUp(raw.NetROI),
		Raw:                    raw,
	}
	if isInf(proj.TimeSavedHoursPerWeek) {
		return model.Projection{}, outOfRange("time_saved_hours", raw.TimeSavedHours)
	}

	// A ratio too large for an int is as uninformative as a division by zero.
	if plan.MonthlyCost != 0 {
		if pct, ok := toInt(raw.NetROI / plan.MonthlyCost * 100); ok {
			proj.ROIPercentage = &pct
		}
	}
	if raw.TotalValue != 0 {
		if days, ok := toInt(plan.MonthlyCost / (raw.TotalValue / DaysPerMonth)); ok {
			proj.PaybackPeriodDays = &days
		}
	}

	return proj, nil
}

// baselineLeads estimates monthly leads from revenue when none were given.
// Without an order value there is no order count to derive, so the floor applies.
func baselineLeads(revenue, avgOrderValue float64) float64 {
	if avgOrderValue <= 0 {
		return MinBaselineLeads
	}
	return math.Max(MinBaselineLeads, revenue/avgOrderValue*LeadSourcedShare)
}

func checkRevenue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalidRevenue(v)
	}
	return nil
}

// checkOptional rejects optional inputs that are infinite or negative.
// NaN is left to orDefault, which treats it as absent.
func checkOptional(p model.BusinessProfile) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"average_order_value", p.AverageOrderValue},
		{"current_monthly_leads", p.CurrentMonthlyLeads},
		{"conversion_rate", p.ConversionRate},
		{"hours_per_week_on_social", p.HoursPerWeekOnSocial},
		{"employee_hourly_rate", p.EmployeeHourlyRate},
	}
	for _, f := range fields {
		if isInf(f.v) || f.v < 0 {
			return invalidInput(f.name, f.v)
		}
	}
	return nil
}

// checkRaw fails when finite inputs overflowed somewhere in the model.
func checkRaw(raw model.RawProjection) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"current_leads", raw.CurrentLeads},
		{"additional_leads", raw.AdditionalLeads},
		{"additional_customers", raw.AdditionalCustomers},
		{"additional_revenue", raw.AdditionalRevenue},
		{"time_saving_value", raw.TimeSavingValue},
		{"total_value", raw.TotalValue},
		{"net_roi", raw.NetROI},
	}
	for _, f := range fields {
		if isInf(f.v) || math.IsNaN(f.v) {
			return outOfRange(f.name, f.v)
		}
	}
	return nil
}

func isInf(v float64) bool { return math.IsInf(v, 0) }

// toInt rounds x half up and reports whether the result fits in an int.
func toInt(x float64) (int, bool) {
	r := roundHalfUp(x)
	if math.IsNaN(r) || r < float64(math.MinInt) || r >= -float64(math.MinInt) {
		return 0, false
	}
	return int(r), true
}

// orDefault treats zero and NaN as "not provided".
func orDefault(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}

// roundHalfUp rounds ties toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTenths(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
