package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/testdb"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type fixture struct {
	db            *gorm.DB
	users         user.Repository
	plans         subscription.PlanRepository
	subscriptions subscription.SubscriptionRepository
	purchases     subscription.PurchaseRepository
	history       subscription.PaymentHistoryRepository
}

func newFixture(t *testing.T, opts ...testdb.Option) *fixture {
	t.Helper()
	gdb := testdb.New(t, opts...)
	log := logger.NewNopLogger()
	return &fixture{
		db:            gdb,
		users:         NewUserRepository(gdb, log),
		plans:         NewPlanRepository(gdb, log),
		subscriptions: NewSubscriptionRepository(gdb, log),
		purchases:     NewPurchaseRepository(gdb, log),
		history:       NewPaymentHistoryRepository(gdb, log),
	}
}

func (f *fixture) createUser(t *testing.T, email string) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(addr, "Test", "User")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) createPlan(t *testing.T, priceID string, planType vo.PlanType, sortOrder int, caps map[string]bool) *subscription.Plan {
	t.Helper()
	params := subscription.NewPlanParams{
		StripePriceID: priceID,
		Name:          priceID,
		PlanType:      planType,
		PriceCents:    999,
		Currency:      "usd",
		Capabilities:  caps,
		SortOrder:     sortOrder,
	}
	if planType == vo.PlanTypeSubscription {
		interval := vo.IntervalMonth
		params.Interval = &interval
	}
	plan, err := subscription.NewPlan(params)
	require.NoError(t, err)
	require.NoError(t, f.plans.Create(context.Background(), plan))
	return plan
}

func (f *fixture) createSubscription(t *testing.T, userID, planID uint, stripeID string, status vo.SubscriptionStatus) *subscription.Subscription {
	t.Helper()
	end := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	sub, err := subscription.NewSubscriptionFromProvider(userID, stripeID, subscription.ProviderState{
		Status:           status,
		PlanID:           planID,
		CurrentPeriodEnd: &end,
		ObservedAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, f.subscriptions.Create(context.Background(), sub))
	return sub
}
