package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/smartflow-ai/smartflow/internal/model"
)

// Catalog holds the business categories and plans the engine resolves against.
type Catalog struct {
	BusinessTypes map[string]model.BusinessType
	Plans         map[string]model.Plan
}

// CatalogOverrides allows user-defined catalog entries in config.toml.
type CatalogOverrides struct {
	BusinessTypes map[string]BusinessTypeOverride `toml:"business_types,omitempty"`
	Plans         map[string]PlanOverride         `toml:"plans,omitempty"`
}

// BusinessTypeOverride patches or adds one business category.
type BusinessTypeOverride struct {
	Label                    *string  `toml:"label,omitempty"`
	LeadMultiplier           *float64 `toml:"lead_multiplier,omitempty"`
	DefaultAverageOrderValue *float64 `toml:"default_average_order_value,omitempty"`
}

// PlanOverride patches or adds one plan.
type PlanOverride struct {
	Label              *string  `toml:"label,omitempty"`
	MonthlyCost        *float64 `toml:"monthly_cost,omitempty"`
	LeadMultiplier     *float64 `toml:"lead_multiplier,omitempty"`
	TimeSavingsPercent *float64 `toml:"time_savings_percent,omitempty"`
}

var defaultBusinessTypes = []model.BusinessType{
	{Key: "ecommerce", Label: "E-commerce & Retail", LeadMultiplier: 3.2, DefaultAverageOrderValue: 85},
	{Key: "beauty", Label: "Beauty & Wellness", LeadMultiplier: 2.8, DefaultAverageOrderValue: 75},
	{Key: "fitness", Label: "Fitness & Health", LeadMultiplier: 2.9, DefaultAverageOrderValue: 60},
	{Key: "realestate", Label: "Real Estate", LeadMultiplier: 2.4, DefaultAverageOrderValue: 2500},
	{Key: "professional", Label: "Professional Services", LeadMultiplier: 2.6, DefaultAverageOrderValue: 350},
	{Key: "restaurant", Label: "Food & Restaurant", LeadMultiplier: 3.0, DefaultAverageOrderValue: 35},
}

var defaultPlans = []model.Plan{
	{Key: "growth", Label: "Growth", MonthlyCost: 97, LeadMultiplier: 3.1, TimeSavingsPercent: 20},
	{Key: "scale", Label: "Scale", MonthlyCost: 247, LeadMultiplier: 3.8, TimeSavingsPercent: 35},
}

// keyAliases maps normalized display names onto catalog keys.
var keyAliases = map[string]string{
	"ecommerceretail":      "ecommerce",
	"retail":               "ecommerce",
	"shop":                 "ecommerce",
	"beautywellness":       "beauty",
	"wellness":             "beauty",
	"fitnesshealth":        "fitness",
	"health":               "fitness",
	"property":             "realestate",
	"professionalservices": "professional",
	"services":             "professional",
	"foodrestaurant":       "restaurant",
	"food":                 "restaurant",
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
func DefaultCatalog() Catalog {
	c := Catalog{
		BusinessTypes: make(map[string]model.BusinessType, len(defaultBusinessTypes)),
		Plans:         make(map[string]model.Plan, len(defaultPlans)),
	}
	for _, bt := range defaultBusinessTypes {
		c.BusinessTypes[bt.Key] = bt
	}
	for _, p := range defaultPlans {
		c.Plans[p.Key] = p
	}
	return c
}

// NormalizeKey lowercases a catalog key and strips separators.
// e.g., "E-commerce & Retail" -> "ecommerceretail"
func NormalizeKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '-', '_', '&', '/', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func resolveKey(raw string, has func(string) bool) (string, bool) {
	key := NormalizeKey(raw)
	if key == "" {
		return "", false
	}
	if has(key) {
		return key, true
	}
	if alias, ok := keyAliases[key]; ok && has(alias) {
		return alias, true
	}
	return "", false
}

// BusinessType resolves a category by key, display name, or alias.
func (c Catalog) BusinessType(raw string) (model.BusinessType, bool) {
	key, ok := resolveKey(raw, func(k string) bool {
		_, found := c.BusinessTypes[k]
		return found
	})
	if !ok {
		return model.BusinessType{}, false
	}
	return c.BusinessTypes[key], true
}

// Plan resolves a plan by key or display name.
func (c Catalog) Plan(raw string) (model.Plan, bool) {
	key, ok := resolveKey(raw, func(k string) bool {
		_, found := c.Plans[k]
		return found
	})
	if !ok {
		return model.Plan{}, false
	}
	return c.Plans[key], true
}

// BusinessTypeList returns categories sorted by label.
func (c Catalog) BusinessTypeList() []model.BusinessType {
	out := make([]model.BusinessType, 0, len(c.BusinessTypes))
	for _, bt := range c.BusinessTypes {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// PlanList returns plans ordered by monthly cost, cheapest first.
func (c Catalog) PlanList() []model.Plan {
	out := make([]model.Plan, 0, len(c.Plans))
	for _, p := range c.Plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthlyCost != out[j].MonthlyCost {
			return out[i].MonthlyCost < out[j].MonthlyCost
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Apply returns a copy of c with the overrides merged in.
// Existing entries are patched field by field; new entries must be complete.
func (c Catalog) Apply(o CatalogOverrides) (Catalog, error) {
	out := Catalog{
		BusinessTypes: make(map[string]model.BusinessType, len(c.BusinessTypes)+len(o.BusinessTypes)),
		Plans:         make(map[string]model.Plan, len(c.Plans)+len(o.Plans)),
	}
	for k, v := range c.BusinessTypes {
		out.BusinessTypes[k] = v
	}
	for k, v := range c.Plans {
		out.Plans[k] = v
	}

	var errs []error
	for raw, ov := range o.BusinessTypes {
		key := NormalizeKey(raw)
		bt, exists := out.BusinessTypes[key]
		if !exists {
			if ov.Label == nil || ov.LeadMultiplier == nil || ov.DefaultAverageOrderValue == nil {
				errs = append(errs, fmt.Errorf("business type %q: new entries need label, lead_multiplier and default_average_order_value", raw))
				continue
			}
			bt = model.BusinessType{Key: key}
		}
		if ov.Label != nil {
			bt.Label = *ov.Label
		}
		if ov.LeadMultiplier != nil {
			bt.LeadMultiplier = *ov.LeadMultiplier
		}
		if ov.DefaultAverageOrderValue != nil {
			bt.DefaultAverageOrderValue = *ov.DefaultAverageOrderValue
		}
		out.BusinessTypes[key] = bt
	}

	for raw, ov := range o.Plans {
		key := NormalizeKey(raw)
		p, exists := out.Plans[key]
		if !exists {
			if ov.Label == nil || ov.MonthlyCost == nil || ov.LeadMultiplier == nil || ov.TimeSavingsPercent == nil {
				errs = append(errs, fmt.Errorf("plan %q: new entries need label, monthly_cost, lead_multiplier and time_savings_percent", raw))
				continue
			}
			p = model.Plan{Key: key}
		}
		if ov.Label != nil {
			p.Label = *ov.Label
		}
		if ov.MonthlyCost != nil {
			p.MonthlyCost = *ov.MonthlyCost
		}
		if ov.LeadMultiplier != nil {
			p.LeadMultiplier = *ov.LeadMultiplier
		}
		if ov.TimeSavingsPercent != nil {
			p.TimeSavingsPercent = *ov.TimeSavingsPercent
		}
		out.Plans[key] = p
	}

	return out, errors.Join(errs...)
}

// Validate reports catalog entries the engine cannot use.
func (c Catalog) Validate() error {
	var errs []error
	if len(c.BusinessTypes) == 0 {
		errs = append(errs, errors.New("catalog has no business types"))
	}
	if len(c.Plans) == 0 {
		errs = append(errs, errors.New("catalog has no plans"))
	}
	for _, bt := range c.BusinessTypeList() {
		if bt.Label == "" {
			errs = append(errs, fmt.Errorf("business type %q: empty label", bt.Key))
		}
		if bt.LeadMultiplier <= 0 {
			errs = append(errs, fmt.Errorf("business type %q: lead multiplier must be positive", bt.Key))
		}
		if bt.DefaultAverageOrderValue < 0 {
			errs = append(errs, fmt.Errorf("business type %q: negative default order value", bt.Key))
		}
	}
	for _, p := range c.PlanList() {
		if p.Label == "" {
			errs = append(errs, fmt.Errorf("plan %q: empty label", p.Key))
		}
		if p.MonthlyCost < 0 {
			errs = append(errs, fmt.Errorf("plan %q: negative monthly cost", p.Key))
		}
		if p.LeadMultiplier <= 0 {
			errs = append(errs, fmt.Errorf("plan %q: lead multiplier must be positive", p.Key))
		}
		if p.TimeSavingsPercent < 0 || p.TimeSavingsPercent > 100 {
			errs = append(errs, fmt.Errorf("plan %q: time savings must be within 0-100", p.Key))
		}
	}
	return errors.Join(errs...)
}

// ResolveCatalog builds the effective catalog for cfg.
func ResolveCatalog(cfg Config) (Catalog, error) {
	cat, err := DefaultCatalog().Apply(cfg.Catalog)
	if err != nil {
		return cat, fmt.Errorf("applying catalog overrides: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return cat, fmt.Errorf("invalid catalog: %w", err)
	}
	return cat, nil
}
