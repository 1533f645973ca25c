package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func testPrincipal(t *testing.T) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail("reader@example.com")
	require.NoError(t, err)
	u, err := user.ReconstructUser(user.ReconstructParams{
		ID:       7,
		UUID:     "reader-uuid",
		Email:    addr,
		IsActive: true,
		Legacy:   uservo.DefaultLegacyBilling(),
		Version:  1,
	})
	require.NoError(t, err)
	return u
}

type readDeps struct {
	entitlements *mockEntitlements
	weeks        *mockWeekSource
	reader       *mockReader
	metrics      *mockReadMetrics
}

func newReadCards(now time.Time) (*ReadCardsUseCase, *readDeps) {
	d := &readDeps{
		entitlements: new(mockEntitlements),
		weeks:        new(mockWeekSource),
		reader:       new(mockReader),
		metrics:      new(mockReadMetrics),
	}
	uc := NewReadCardsUseCase(d.entitlements, d.weeks, d.reader, d.metrics, logger.NewNopLogger())
	uc.now = func() time.Time { return now }
	return uc, d
}

// a Wednesday
var releaseDay = time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC)

func TestReadCardsUseCase_AnonymousGetsDelayedSnapshot(t *testing.T) {
	uc, d := newReadCards(releaseDay)
	served := 4

	d.weeks.On("CurrentWeek", mock.Anything).Return(5, nil)
	d.reader.On("Read", mock.Anything, mock.MatchedBy(func(req tier.ReadRequest) bool {
		return req.Handle.Source == tier.SourceFree &&
			req.Handle.Table == "players_page_free" &&
			req.MaxWeek == 4 &&
			req.Limit == 24 && req.Offset == 24 &&
			*req.Filter.PosGroup == "C"
	})).Return(&tier.ReadResult{
		Rows:     []tier.Row{{"player_id": 1}},
		Total:    30,
		DataWeek: &served,
	}, nil)
	d.metrics.On("DatasetRead", "player_cards", "free").Return()

	result, err := uc.Execute(context.Background(), ReadCardsQuery{
		Dataset:  "player_cards",
		PosGroup: strPtr("C"),
		Page:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, "free", result.DataSource)
	require.NotNil(t, result.DataWeek)
	assert.Equal(t, 4, *result.DataWeek)
	require.NotNil(t, result.FreshnessMessage)
	assert.Contains(t, *result.FreshnessMessage, "1 week ago")
	assert.True(t, result.IsDataReleaseDay)
	assert.Equal(t, 2, result.Pagination.PageNumber)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	d.entitlements.AssertNotCalled(t, "HasFeature", mock.Anything, mock.Anything, mock.Anything)
	d.metrics.AssertExpectations(t)
}

func TestReadCardsUseCase_PremiumReadsLiveTable(t *testing.T) {
	uc, d := newReadCards(releaseDay.Add(24 * time.Hour))
	principal := testPrincipal(t)

	d.entitlements.On("HasFeature", mock.Anything, principal, vo.FeaturePremiumAccess).Return(true, nil)
	d.weeks.On("CurrentWeek", mock.Anything).Return(5, nil)
	d.reader.On("Read", mock.Anything, mock.MatchedBy(func(req tier.ReadRequest) bool {
		return req.Handle.Source == tier.SourcePremium && req.Handle.Table == "teams_page" && req.MaxWeek == 5
	})).Return(&tier.ReadResult{Rows: []tier.Row{}}, nil)
	d.metrics.On("DatasetRead", "team_cards", "premium").Return()

	result, err := uc.Execute(context.Background(), ReadCardsQuery{Principal: principal, Dataset: "team_cards"})

	require.NoError(t, err)
	assert.Equal(t, "premium", result.DataSource)
	assert.Nil(t, result.FreshnessMessage)
	assert.False(t, result.IsDataReleaseDay)
	require.NotNil(t, result.DataWeek)
	assert.Equal(t, 5, *result.DataWeek)
}

func TestReadCardsUseCase_SignedInWithoutPremium(t *testing.T) {
	uc, d := newReadCards(releaseDay)
	principal := testPrincipal(t)

	d.entitlements.On("HasFeature", mock.Anything, principal, vo.FeaturePremiumAccess).Return(false, nil)
	d.weeks.On("CurrentWeek", mock.Anything).Return(0, nil)
	d.reader.On("Read", mock.Anything, mock.MatchedBy(func(req tier.ReadRequest) bool {
		return req.Handle.Source == tier.SourceFree && req.MaxWeek == 0
	})).Return(&tier.ReadResult{Rows: []tier.Row{}}, nil)
	d.metrics.On("DatasetRead", "goalie_stats", "free").Return()

	result, err := uc.Execute(context.Background(), ReadCardsQuery{Principal: principal, Dataset: "goalie_stats"})

	require.NoError(t, err)
	assert.Equal(t, "free", result.DataSource)
	// nothing published yet, so nobody is behind
	assert.Nil(t, result.FreshnessMessage)
}

func TestReadCardsUseCase_Validation(t *testing.T) {
	tests := []struct {
		name     string
		query    ReadCardsQuery
		wantType apperrors.ErrorType
	}{
		{"season below range", ReadCardsQuery{Dataset: "player_cards", SeasonID: intPtr(45)}, apperrors.ErrorTypeValidation},
		{"season above range", ReadCardsQuery{Dataset: "player_cards", SeasonID: intPtr(53)}, apperrors.ErrorTypeValidation},
		{"unknown league", ReadCardsQuery{Dataset: "player_cards", LeagueID: intPtr(40)}, apperrors.ErrorTypeValidation},
		{"unknown game type", ReadCardsQuery{Dataset: "player_cards", GameTypeID: intPtr(3)}, apperrors.ErrorTypeValidation},
		{"unknown position", ReadCardsQuery{Dataset: "player_cards", PosGroup: strPtr("G")}, apperrors.ErrorTypeValidation},
		{"position on goalies", ReadCardsQuery{Dataset: "goalie_cards", PosGroup: strPtr("C")}, apperrors.ErrorTypeValidation},
		{"non positive id", ReadCardsQuery{Dataset: "player_cards", PlayerIDs: []int{1, 0}}, apperrors.ErrorTypeValidation},
		{"unknown dataset", ReadCardsQuery{Dataset: "referee_cards"}, apperrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := newReadCards(releaseDay)

			_, err := uc.Execute(context.Background(), tt.query)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			d.reader.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
		})
	}
}

func TestReadCardsUseCase_EntitlementFailureIsNotDowngraded(t *testing.T) {
	uc, d := newReadCards(releaseDay)
	principal := testPrincipal(t)

	d.entitlements.On("HasFeature", mock.Anything, principal, vo.FeaturePremiumAccess).
		Return(false, errors.New("connection refused"))

	_, err := uc.Execute(context.Background(), ReadCardsQuery{Principal: principal, Dataset: "player_cards"})

	require.Error(t, err)
	assert.False(t, apperrors.IsAppError(err))
	d.reader.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}
