package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/biddingpackage"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

type mockEntitlements struct {
	mock.Mock
}

func (m *mockEntitlements) HasFeature(ctx context.Context, principal *user.User, feature string) (bool, error) {
	args := m.Called(ctx, principal, feature)
	return args.Bool(0), args.Error(1)
}

func (m *mockEntitlements) Evaluate(ctx context.Context, principal *user.User, features ...string) (map[string]entitlement.Result, error) {
	args := m.Called(ctx, principal, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entitlement.Result), args.Error(1)
}

type mockWeekSource struct {
	mock.Mock
}

func (m *mockWeekSource) CurrentWeek(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) Read(ctx context.Context, req tier.ReadRequest) (*tier.ReadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tier.ReadResult), args.Error(1)
}

func (m *mockReader) Names(ctx context.Context, req tier.LookupRequest) ([]tier.NameEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tier.NameEntry), args.Error(1)
}

func (m *mockReader) TeamNames(ctx context.Context, req tier.LookupRequest) ([]string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockReadMetrics struct {
	mock.Mock
}

func (m *mockReadMetrics) DatasetRead(dataset, source string) {
	m.Called(dataset, source)
}

type mockBiddingReader struct {
	mock.Mock
}

func (m *mockBiddingReader) List(ctx context.Context, req biddingpackage.ListRequest) (*biddingpackage.ListResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*biddingpackage.ListResult), args.Error(1)
}

func (m *mockBiddingReader) Player(ctx context.Context, playerID int) (tier.Row, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tier.Row), args.Error(1)
}

func (m *mockBiddingReader) Seasons(ctx context.Context, playerID int, goalie bool) ([]tier.Row, error) {
	args := m.Called(ctx, playerID, goalie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tier.Row), args.Error(1)
}
