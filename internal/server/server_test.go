package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/smartflow-ai/smartflow/internal/api"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, withStore bool) *Service {
	t.Helper()
	var st ScenarioStore
	if withStore {
		s, err := store.Open(filepath.Join(t.TempDir(), "scenarios.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		st = s
	}
	return New(Config{}, config.DefaultCatalog(), st, nil)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var ecommerce = model.BusinessProfile{BusinessType: "ecommerce", MonthlyRevenue: 10000}

func TestHealth(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodGet, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cat := decodeBody[api.CatalogResponse](t, rec)
	assert.Len(t, cat.BusinessTypes, 6)
	require.Len(t, cat.Plans, 2)
	assert.Equal(t, "growth", cat.Plans[0].Key)
	assert.Equal(t, "scale", cat.Plans[1].Key)
}

func TestROI_Growth(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodPost, "/v1/roi",
		api.ROIRequest{Profile: ecommerce, Plan: "growth"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decodeBody[model.Projection](t, rec)
	assert.Equal(t, 315, p.AdditionalLeads)
	assert.Equal(t, 66, p.AdditionalCustomers)
	assert.Equal(t, 5620.0, p.AdditionalRevenue)
	assert.Equal(t, 5847.0, p.NetMonthlyROI)
	require.NotNil(t, p.ROIPercentage)
	assert.Equal(t, 6028, *p.ROIPercentage)
	require.NotNil(t, p.PaybackPeriodDays)
	assert.Equal(t, 0, *p.PaybackPeriodDays)
}

func TestROI_ValidationErrors(t *testing.T) {
	h := newTestService(t, false).Handler()

	tests := []struct {
		name  string
		req   api.ROIRequest
		code  string
		field string
	}{
		{"unknown category", api.ROIRequest{Profile: model.BusinessProfile{BusinessType: "spaceships", MonthlyRevenue: 10000}, Plan: "growth"}, "CATEGORY_NOT_FOUND", "business_type"},
		{"zero revenue", api.ROIRequest{Profile: model.BusinessProfile{BusinessType: "ecommerce"}, Plan: "growth"}, "INVALID_REVENUE", "monthly_revenue"},
		{"unknown plan", api.ROIRequest{Profile: ecommerce, Plan: "enterprise"}, "PLAN_NOT_FOUND", "plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/roi", tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decodeBody[api.ErrorBody](t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestROI_OverflowingInputIsRejected(t *testing.T) {
	h := newTestService(t, false).Handler()

	rec := do(t, h, http.MethodPost, "/v1/roi",
		`{"profile":{"business_type":"ecommerce","monthly_revenue":10000,"hours_per_week_on_social":1e308},"plan":"growth"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decodeBody[api.ErrorBody](t, rec)
	assert.Equal(t, "OUT_OF_RANGE", body.Code)
	assert.Equal(t, "time_saving_value", body.Field)

	rec = do(t, h, http.MethodPost, "/v1/roi",
		`{"profile":{"business_type":"ecommerce","monthly_revenue":10000,"current_monthly_leads":-3},"plan":"growth"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "INVALID_INPUT", decodeBody[api.ErrorBody](t, rec).Code)
}

func TestWriteJSON_UnencodableValueIs500(t *testing.T) {
	svc := newTestService(t, false)
	rec := httptest.NewRecorder()

	svc.writeJSON(rec, http.StatusOK, map[string]float64{"total": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody[api.ErrorBody](t, rec)
	assert.Equal(t, "INTERNAL", body.Code)
}

func TestROI_MalformedBody(t *testing.T) {
	h := newTestService(t, false).Handler()

	rec := do(t, h, http.MethodPost, "/v1/roi", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/roi", `{"profile":{"business_type":"ecommerce","monthly_revenue":1},"plan":"growth","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeBody[api.ErrorBody](t, rec).Code)
}

func TestROI_WrongMethod(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodGet, "/v1/roi", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCompare(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodPost, "/v1/roi/compare",
		api.ROIRequest{Profile: ecommerce})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[api.CompareResponse](t, rec)
	require.Len(t, resp.Projections, 2)
	assert.Equal(t, "growth", resp.Projections[0].Plan)
	assert.Equal(t, "scale", resp.Projections[1].Plan)
	assert.Equal(t, 7352.0, resp.Projections[1].NetMonthlyROI)
	assert.Equal(t, "scale", resp.Best)
}

func TestCompare_Invalid(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodPost, "/v1/roi/compare",
		api.ROIRequest{Profile: model.BusinessProfile{BusinessType: "ecommerce", MonthlyRevenue: -5}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_REVENUE", decodeBody[api.ErrorBody](t, rec).Code)
}

func TestScenarios_DisabledWithoutStore(t *testing.T) {
	h := newTestService(t, false).Handler()
	rec := do(t, h, http.MethodGet, "/v1/scenarios", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SCENARIOS_DISABLED", decodeBody[api.ErrorBody](t, rec).Code)
}

func TestScenarios_CRUD(t *testing.T) {
	h := newTestService(t, true).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scenarios", SaveScenarioRequest{
		Name: "shop baseline", Plan: "growth", Profile: ecommerce, Notes: "q3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[ScenarioResponse](t, rec)
	require.NotEmpty(t, created.Scenario.ID)
	require.NotNil(t, created.Projection)
	assert.Equal(t, 5847.0, created.Projection.NetMonthlyROI)

	rec = do(t, h, http.MethodGet, "/v1/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]ScenarioResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "shop baseline", list[0].Scenario.Name)

	rec = do(t, h, http.MethodGet, "/v1/scenarios/"+created.Scenario.ID[:8], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[ScenarioResponse](t, rec)
	assert.Equal(t, created.Scenario.ID, got.Scenario.ID)
	assert.Equal(t, "q3", got.Scenario.Notes)

	rec = do(t, h, http.MethodDelete, "/v1/scenarios/"+created.Scenario.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/scenarios/"+created.Scenario.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[api.ErrorBody](t, rec).Code)
}

func TestScenarios_SaveRejectsInvalidProfile(t *testing.T) {
	h := newTestService(t, true).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scenarios", SaveScenarioRequest{
		Name: "bad", Plan: "growth", Profile: model.BusinessProfile{BusinessType: "ecommerce"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/scenarios", SaveScenarioRequest{Plan: "growth", Profile: ecommerce})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/scenarios", nil)
	assert.Empty(t, decodeBody[[]ScenarioResponse](t, rec))
}

func TestScenarios_ReprojectAgainstCurrentCatalog(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "scenarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = st.SaveScenario(t.Context(), store.Scenario{Name: "old", Plan: "legacy", Profile: ecommerce})
	require.NoError(t, err)

	h := New(Config{}, config.DefaultCatalog(), st, nil).Handler()
	rec := do(t, h, http.MethodGet, "/v1/scenarios/old", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ScenarioResponse](t, rec)
	assert.Nil(t, got.Projection)
	require.NotNil(t, got.Error)
	assert.Equal(t, "PLAN_NOT_FOUND", got.Error.Code)
}

func TestStatusCounters(t *testing.T) {
	svc := newTestService(t, false)
	h := svc.Handler()

	do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "growth"})
	do(t, h, http.MethodPost, "/v1/roi/compare", api.ROIRequest{Profile: ecommerce})
	do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "nope"})

	rec := do(t, h, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[Status](t, rec)
	assert.Equal(t, int64(3), st.Projections)
	assert.Equal(t, int64(1), st.ValidationFailures)
	assert.Equal(t, int64(3), st.Requests)
	assert.Equal(t, 2, st.Plans)
	assert.False(t, st.ScenariosEnabled)
}

func TestMetrics(t *testing.T) {
	svc := newTestService(t, false)
	h := svc.Handler()

	do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "growth"})
	do(t, h, http.MethodPost, "/v1/roi/compare", api.ROIRequest{Profile: ecommerce})
	do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "nope"})

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.metrics.projections.WithLabelValues("growth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.projections.WithLabelValues("scale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.validationFailures.WithLabelValues("PLAN_NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.requests.WithLabelValues("POST", "/v1/roi", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.requests.WithLabelValues("POST", "/v1/roi", "422")))

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `smartflow_projections_total{plan="growth"} 2`)
	assert.Contains(t, body, "smartflow_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsIsolatedPerService(t *testing.T) {
	a, b := newTestService(t, false), newTestService(t, false)
	do(t, a.Handler(), http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "growth"})

	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.projections.WithLabelValues("growth")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.metrics.projections.WithLabelValues("growth")))
}

func TestUnmatchedRouteLabel(t *testing.T) {
	svc := newTestService(t, false)
	rec := do(t, svc.Handler(), http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestSetCatalog(t *testing.T) {
	svc := newTestService(t, false)
	h := svc.Handler()
	before := decodeBody[Status](t, do(t, h, http.MethodGet, "/v1/status", nil)).CatalogLoadedAt

	rec := do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "pro"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	cat := config.DefaultCatalog()
	cat.Plans["pro"] = model.Plan{Key: "pro", Label: "Pro", MonthlyCost: 497, LeadMultiplier: 4.5, TimeSavingsPercent: 50}
	svc.SetCatalog(cat)

	rec = do(t, h, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: ecommerce, Plan: "pro"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "pro", decodeBody[model.Projection](t, rec).Plan)

	st := decodeBody[Status](t, do(t, h, http.MethodGet, "/v1/status", nil))
	assert.Equal(t, 3, st.Plans)
	assert.False(t, st.CatalogLoadedAt.Before(before))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.catalogReloads))
}
