package roi

import "github.com/smartflow-ai/smartflow/internal/model"

// Compare projects the profile against every plan in the catalog,
// cheapest plan first.
func Compare(p model.BusinessProfile, cat Catalog) ([]model.Projection, error) {
	bt, ok := cat.BusinessType(p.BusinessType)
	if !ok {
		return nil, categoryNotFound(p.BusinessType)
	}
	if err := checkRevenue(p.MonthlyRevenue); err != nil {
		return nil, err
	}

	plans := cat.PlanList()
	out := make([]model.Projection, 0, len(plans))
	for _, plan := range plans {
		proj, err := Project(p, bt, plan)
		if err != nil {
			return nil, err
		}
		out = append(out, proj)
	}
	return out, nil
}

// Best returns the projection with the highest net monthly ROI.
// Ties go to the earlier entry, which for Compare output is the cheaper plan.
func Best(projections []model.Projection) (model.Projection, bool) {
	if len(projections) == 0 {
		return model.Projection{}, false
	}
	best := projections[0]
	for _, p := range projections[1:] {
		if p.Raw.NetROI > best.Raw.NetROI {
			best = p
		}
	}
	return best, true
}
