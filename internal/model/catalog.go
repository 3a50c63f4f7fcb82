// Package model defines domain types for SmartFlow ROI projections.
package model

// BusinessType is an industry category in the catalog.
type BusinessType struct {
	Key                      string  `json:"key"`
	Label                    string  `json:"label"`
	LeadMultiplier           float64 `json:"lead_multiplier"`
	DefaultAverageOrderValue float64 `json:"default_average_order_value"`
}

// Plan is a subscription tier in the catalog.
type Plan struct {
	Key                string  `json:"key"`
	Label              string  `json:"label"`
	MonthlyCost        float64 `json:"monthly_cost"`
	LeadMultiplier     float64 `json:"lead_multiplier"`
	TimeSavingsPercent float64 `json:"time_savings_percent"` // 0-100
}

// BusinessProfile describes the operator's current business.
// A zero value in any optional field means "not provided".
type BusinessProfile struct {
	BusinessType         string  `json:"business_type"`
	MonthlyRevenue       float64 `json:"monthly_revenue"`
	AverageOrderValue    float64 `json:"average_order_value,omitempty"`
	CurrentMonthlyLeads  float64 `json:"current_monthly_leads,omitempty"`
	ConversionRate       float64 `json:"conversion_rate,omitempty"`
	HoursPerWeekOnSocial float64 `json:"hours_per_week_on_social,omitempty"`
	EmployeeHourlyRate   float64 `json:"employee_hourly_rate,omitempty"`
}
