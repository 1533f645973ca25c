package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers/testutil"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

type mockBiddingUC struct {
	list     *statsusecases.BiddingPackageResult
	player   *statsusecases.BiddingPlayerResult
	err      error
	query    statsusecases.BiddingPackageQuery
	playerID int
	called   bool
}

func (m *mockBiddingUC) List(ctx context.Context, query statsusecases.BiddingPackageQuery) (*statsusecases.BiddingPackageResult, error) {
	m.called = true
	m.query = query
	return m.list, m.err
}

func (m *mockBiddingUC) Player(ctx context.Context, playerID int) (*statsusecases.BiddingPlayerResult, error) {
	m.called = true
	m.playerID = playerID
	return m.player, m.err
}

func TestBiddingPackageHandler_ListParsesFilters(t *testing.T) {
	uc := &mockBiddingUC{list: &statsusecases.BiddingPackageResult{Data: []tier.Row{}}}
	handler := NewBiddingPackageHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/bidding-package/data", nil)
	testutil.SetQueryParams(c, map[string]string{
		"search":         " gretz ",
		"pos_group":      "F",
		"console":        "Xbox Series X|S",
		"show_rostered":  "false",
		"last_league_id": "38",
		"sort_by":        "points",
		"sort_order":     "ASC",
		"page_number":    "2",
	})

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	q := uc.query
	assert.Equal(t, "gretz", *q.Search)
	assert.Equal(t, "F", *q.PosGroup)
	assert.Equal(t, "Xbox Series X|S", *q.Console)
	assert.Nil(t, q.Server)
	assert.False(t, q.ShowRostered)
	assert.Equal(t, 38, *q.LastLeagueID)
	assert.Nil(t, q.LastSeasonID)
	assert.Equal(t, "points", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
	assert.Equal(t, 2, q.Page)
}

func TestBiddingPackageHandler_ListShowsRosteredByDefault(t *testing.T) {
	uc := &mockBiddingUC{list: &statsusecases.BiddingPackageResult{}}
	handler := NewBiddingPackageHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/bidding-package/data", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.query.ShowRostered)
}

func TestBiddingPackageHandler_ListRejectsBadBoolean(t *testing.T) {
	uc := &mockBiddingUC{}
	handler := NewBiddingPackageHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/bidding-package/data", nil)
	testutil.SetQueryParams(c, map[string]string{"show_rostered": "sometimes"})

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrorTypeValidation), errorType(t, w.Body.Bytes()))
	assert.False(t, uc.called)
}

func TestBiddingPackageHandler_Player(t *testing.T) {
	uc := &mockBiddingUC{player: &statsusecases.BiddingPlayerResult{Player: tier.Row{"player_id": 7}}}
	handler := NewBiddingPackageHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/bidding-package/player/7", nil)
	testutil.SetPathParams(c, map[string]string{"player_id": "7"})

	handler.Player(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, uc.playerID)
}

func TestBiddingPackageHandler_PlayerNotFound(t *testing.T) {
	uc := &mockBiddingUC{err: errors.NewNotFoundError("Player not found in bidding package")}
	handler := NewBiddingPackageHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/bidding-package/player/8", nil)
	testutil.SetPathParams(c, map[string]string{"player_id": "8"})

	handler.Player(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
