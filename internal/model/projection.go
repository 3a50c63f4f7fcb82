package model

// Projection is the monthly outcome of adopting a plan.
// Rounded fields are derived from Raw; nothing is rounded twice.
type Projection struct {
	BusinessType string `json:"business_type"`
	Plan         string `json:"plan"`

	AdditionalLeads        int     `json:"additional_leads"`
	AdditionalCustomers    int     `json:"additional_customers"`
	AdditionalRevenue      float64 `json:"additional_revenue"`
	TimeSavedHoursPerWeek  float64 `json:"time_saved_hours_per_week"`
	TimeSavingValueMonthly float64 `json:"time_saving_value_monthly"`
	TotalMonthlyValue      float64 `json:"total_monthly_value"`
	PlanCost               float64 `json:"plan_cost"`
	NetMonthlyROI          float64 `json:"net_monthly_roi"`

	// nil when the plan costs nothing.
	ROIPercentage *int `json:"roi_percentage"`
	// nil when the projection produces no value to pay the plan back with.
	PaybackPeriodDays *int `json:"payback_period_days"`

	Raw RawProjection `json:"raw"`
}

// RawProjection keeps the unrounded working of a projection.
type RawProjection struct {
	CurrentLeads        float64 `json:"current_leads"`
	AverageOrderValue   float64 `json:"average_order_value"`
	BaseConversion      float64 `json:"base_conversion"`
	ImprovedConversion  float64 `json:"improved_conversion"`
	AdditionalLeads     float64 `json:"additional_leads"`
	AdditionalCustomers float64 `json:"additional_customers"`
	AdditionalRevenue   float64 `json:"additional_revenue"`
	TimeSavedHours      float64 `json:"time_saved_hours"`
	TimeSavingValue     float64 `json:"time_saving_value"`
	TotalValue          float64 `json:"total_value"`
	NetROI              float64 `json:"net_roi"`
}

// PaybackIndeterminate reports whether the payback period has no numeric value.
func (p Projection) PaybackIndeterminate() bool {
	return p.PaybackPeriodDays == nil
}

// ROIIndeterminate reports whether the ROI percentage has no numeric value.
func (p Projection) ROIIndeterminate() bool {
	return p.ROIPercentage == nil
}
