package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-ai/smartflow/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "scenarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveScenario_AssignsIDAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	saved, err := s.SaveScenario(ctx, Scenario{
		Name: "Q3 shop",
		Plan: "growth",
		Profile: model.BusinessProfile{
			BusinessType:         "ecommerce",
			MonthlyRevenue:       10000,
			ConversionRate:       0.12,
			HoursPerWeekOnSocial: 8,
		},
		Notes: "baseline",
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	got, err := s.GetScenario(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Name, got.Name)
	assert.Equal(t, saved.Plan, got.Plan)
	assert.Equal(t, saved.Profile, got.Profile)
	assert.Equal(t, "baseline", got.Notes)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
}

func TestSaveScenario_RequiresName(t *testing.T) {
	_, err := openTemp(t).SaveScenario(context.Background(), Scenario{Plan: "growth"})
	require.Error(t, err)
}

func TestSaveScenario_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first, err := s.SaveScenario(ctx, Scenario{Name: "a", Plan: "growth", Profile: model.BusinessProfile{BusinessType: "beauty", MonthlyRevenue: 1}})
	require.NoError(t, err)

	first.Plan = "scale"
	_, err = s.SaveScenario(ctx, first)
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetScenario(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "scale", got.Plan)
}

func TestGetScenario_ByPrefixAndName(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	a, err := s.SaveScenario(ctx, Scenario{ID: "aaaa-1111", Name: "alpha", Plan: "growth", Profile: model.BusinessProfile{BusinessType: "fitness", MonthlyRevenue: 5}})
	require.NoError(t, err)
	_, err = s.SaveScenario(ctx, Scenario{ID: "aaab-2222", Name: "beta", Plan: "growth", Profile: model.BusinessProfile{BusinessType: "fitness", MonthlyRevenue: 5}})
	require.NoError(t, err)

	got, err := s.GetScenario(ctx, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = s.GetScenario(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, "aaab-2222", got.ID)

	_, err = s.GetScenario(ctx, "aaa")
	assert.True(t, errors.Is(err, ErrAmbiguous), "err = %v", err)

	_, err = s.GetScenario(ctx, "zzz")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	_, err = s.GetScenario(ctx, "%")
	assert.True(t, errors.Is(err, ErrNotFound), "LIKE wildcards must be literal, err = %v", err)
}

func TestListScenarios_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.SaveScenario(ctx, Scenario{Name: "old", Plan: "growth", CreatedAt: old, Profile: model.BusinessProfile{BusinessType: "fitness", MonthlyRevenue: 5}})
	require.NoError(t, err)
	_, err = s.SaveScenario(ctx, Scenario{Name: "new", Plan: "scale", Profile: model.BusinessProfile{BusinessType: "fitness", MonthlyRevenue: 5}})
	require.NoError(t, err)

	list, err := s.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Name)
	assert.Equal(t, "old", list[1].Name)
}

func TestDeleteScenario(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	sc, err := s.SaveScenario(ctx, Scenario{Name: "gone", Plan: "growth", Profile: model.BusinessProfile{BusinessType: "fitness", MonthlyRevenue: 5}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteScenario(ctx, "gone"))
	_, err = s.GetScenario(ctx, sc.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(s.DeleteScenario(ctx, "gone"), ErrNotFound))
}
