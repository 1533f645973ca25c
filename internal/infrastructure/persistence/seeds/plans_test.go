package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/testdb"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/repository"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

func TestSeedPlans(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()
	repo := repository.NewPlanRepository(testdb.New(t), log)
	catalog := DefaultPlans("price_premium", "price_bidding")

	result, err := SeedPlans(ctx, repo, catalog, log)
	require.NoError(t, err)
	assert.Equal(t, &PlanSeedResult{Created: 2}, result)

	plans, err := repo.ListActive(ctx, nil)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Premium Subscription", plans[0].Name())
	assert.Equal(t, int64(999), plans[0].Price().Amount())
	assert.True(t, plans[0].Capabilities().Grants(vo.FeatureRealTimeData))
	assert.Equal(t, vo.PlanTypeOneTime, plans[1].PlanType())
	assert.Nil(t, plans[1].Interval())

	result, err = SeedPlans(ctx, repo, catalog, log)
	require.NoError(t, err)
	assert.Equal(t, &PlanSeedResult{Unchanged: 2}, result)

	bidding, err := repo.GetByStripePriceID(ctx, "price_bidding")
	require.NoError(t, err)
	bidding.Deactivate()
	require.NoError(t, repo.Update(ctx, bidding))

	catalog[1].Description = "Draft tools"
	result, err = SeedPlans(ctx, repo, catalog, log)
	require.NoError(t, err)
	assert.Equal(t, &PlanSeedResult{Updated: 1, Unchanged: 1}, result)

	bidding, err = repo.GetByStripePriceID(ctx, "price_bidding")
	require.NoError(t, err)
	assert.True(t, bidding.IsActive())
	assert.Equal(t, "Draft tools", bidding.Description())
}

func TestSeedPlans_RequiresPriceIDs(t *testing.T) {
	log := logger.NewNopLogger()
	repo := repository.NewPlanRepository(testdb.New(t), log)

	_, err := SeedPlans(context.Background(), repo, DefaultPlans("", "price_bidding"), log)
	assert.Error(t, err)
}
