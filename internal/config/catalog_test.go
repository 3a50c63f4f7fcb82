package config

import (
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestBusinessType_ResolvesKeysLabelsAndAliases(t *testing.T) {
	cat := DefaultCatalog()

	cases := map[string]string{
		"ecommerce":             "ecommerce",
		"E-commerce & Retail":   "ecommerce",
		"retail":                "ecommerce",
		"Real Estate":           "realestate",
		"professional_services": "professional",
		"FOOD":                  "restaurant",
	}
	for raw, want := range cases {
		bt, ok := cat.BusinessType(raw)
		if !ok {
			t.Fatalf("BusinessType(%q) not found", raw)
		}
		if bt.Key != want {
			t.Fatalf("BusinessType(%q).Key = %q, want %q", raw, bt.Key, want)
		}
	}

	for _, raw := range []string{"", "   ", "aerospace"} {
		if _, ok := cat.BusinessType(raw); ok {
			t.Fatalf("BusinessType(%q) resolved, want miss", raw)
		}
	}
}

func TestDefaultCatalog_Constants(t *testing.T) {
	cat := DefaultCatalog()

	ec, _ := cat.BusinessType("ecommerce")
	if ec.LeadMultiplier != 3.2 || ec.DefaultAverageOrderValue != 85 {
		t.Fatalf("ecommerce = %+v, want multiplier 3.2 and order value 85", ec)
	}

	growth, ok := cat.Plan("Growth")
	if !ok {
		t.Fatal("growth plan missing")
	}
	if growth.MonthlyCost != 97 || growth.LeadMultiplier != 3.1 || growth.TimeSavingsPercent != 20 {
		t.Fatalf("growth = %+v", growth)
	}
	scale, _ := cat.Plan("scale")
	if scale.MonthlyCost != 247 || scale.LeadMultiplier != 3.8 || scale.TimeSavingsPercent != 35 {
		t.Fatalf("scale = %+v", scale)
	}

	if err := cat.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestDefaultCatalog_ReturnsIndependentCopies(t *testing.T) {
	a := DefaultCatalog()
	a.Plans["growth"] = a.Plans["scale"]

	b := DefaultCatalog()
	if b.Plans["growth"].MonthlyCost != 97 {
		t.Fatalf("mutating one catalog leaked into another: growth cost %.0f", b.Plans["growth"].MonthlyCost)
	}
}

func TestPlanList_OrderedByCost(t *testing.T) {
	cat := DefaultCatalog()
	cat.Plans["starter"] = cat.Plans["growth"]
	starter := cat.Plans["starter"]
	starter.Key = "starter"
	starter.MonthlyCost = 29
	cat.Plans["starter"] = starter

	plans := cat.PlanList()
	got := make([]string, 0, len(plans))
	for _, p := range plans {
		got = append(got, p.Key)
	}
	if strings.Join(got, ",") != "starter,growth,scale" {
		t.Fatalf("PlanList order = %v, want [starter growth scale]", got)
	}
}

func TestApply_PatchesExistingAndAddsComplete(t *testing.T) {
	o := CatalogOverrides{
		BusinessTypes: map[string]BusinessTypeOverride{
			"ecommerce": {DefaultAverageOrderValue: ptr(120.0)},
			"Auto Repair": {
				Label:                    ptr("Auto Repair"),
				LeadMultiplier:           ptr(2.2),
				DefaultAverageOrderValue: ptr(400.0),
			},
		},
		Plans: map[string]PlanOverride{
			"growth": {MonthlyCost: ptr(79.0)},
		},
	}

	cat, err := DefaultCatalog().Apply(o)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	ec := cat.BusinessTypes["ecommerce"]
	if ec.DefaultAverageOrderValue != 120 || ec.LeadMultiplier != 3.2 {
		t.Fatalf("patched ecommerce = %+v", ec)
	}
	auto, ok := cat.BusinessType("auto repair")
	if !ok || auto.Key != "autorepair" || auto.LeadMultiplier != 2.2 {
		t.Fatalf("added business type = %+v, ok=%v", auto, ok)
	}
	if cat.Plans["growth"].MonthlyCost != 79 || cat.Plans["growth"].LeadMultiplier != 3.1 {
		t.Fatalf("patched growth = %+v", cat.Plans["growth"])
	}
	if DefaultCatalog().Plans["growth"].MonthlyCost != 97 {
		t.Fatal("Apply mutated the default catalog")
	}
}

func TestApply_RejectsIncompleteNewEntries(t *testing.T) {
	o := CatalogOverrides{
		Plans: map[string]PlanOverride{
			"enterprise": {MonthlyCost: ptr(997.0)},
		},
	}
	cat, err := DefaultCatalog().Apply(o)
	if err == nil {
		t.Fatal("Apply accepted an incomplete new plan")
	}
	if _, ok := cat.Plan("enterprise"); ok {
		t.Fatal("incomplete plan was added to the catalog")
	}
}

func TestValidate_ReportsBadEntries(t *testing.T) {
	cat := DefaultCatalog()
	scale := cat.Plans["scale"]
	scale.TimeSavingsPercent = 140
	cat.Plans["scale"] = scale
	fit := cat.BusinessTypes["fitness"]
	fit.LeadMultiplier = 0
	cat.BusinessTypes["fitness"] = fit

	err := cat.Validate()
	if err == nil {
		t.Fatal("Validate accepted invalid entries")
	}
	msg := err.Error()
	for _, want := range []string{`plan "scale"`, `business type "fitness"`} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Validate error %q does not mention %s", msg, want)
		}
	}
}
