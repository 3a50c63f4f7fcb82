package roi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
)

func TestCompare_AllPlansCheapestFirst(t *testing.T) {
	projs, err := Compare(ecommerceProfile(), config.DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, projs, 2)

	assert.Equal(t, "growth", projs[0].Plan)
	assert.Equal(t, "scale", projs[1].Plan)

	single, err := Compute(ecommerceProfile(), "scale", config.DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, single, projs[1])
}

func TestCompare_PropagatesValidation(t *testing.T) {
	_, err := Compare(model.BusinessProfile{BusinessType: "ecommerce"}, config.DefaultCatalog())
	assert.True(t, errors.Is(err, ErrInvalidRevenue))

	_, err = Compare(model.BusinessProfile{BusinessType: "zoo", MonthlyRevenue: 1}, config.DefaultCatalog())
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	projs, err := Compare(ecommerceProfile(), config.DefaultCatalog())
	require.NoError(t, err)
	best, ok := Best(projs)
	require.True(t, ok)
	assert.Equal(t, "scale", best.Plan)

	tie := []model.Projection{
		{Plan: "cheap", Raw: model.RawProjection{NetROI: 10}},
		{Plan: "pricey", Raw: model.RawProjection{NetROI: 10}},
	}
	best, _ = Best(tie)
	assert.Equal(t, "cheap", best.Plan)
}
