package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers/testutil"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

type mockReadCardsUC struct {
	result *statsusecases.CardsResult
	err    error
	query  statsusecases.ReadCardsQuery
	called bool
}

func (m *mockReadCardsUC) Execute(ctx context.Context, query statsusecases.ReadCardsQuery) (*statsusecases.CardsResult, error) {
	m.called = true
	m.query = query
	return m.result, m.err
}

func TestCardsHandler_ParsesFilters(t *testing.T) {
	week := 4
	uc := &mockReadCardsUC{result: &statsusecases.CardsResult{
		Data:       []tier.Row{{"player_id": float64(12)}},
		DataSource: "free",
		DataWeek:   &week,
	}}
	handler := NewCardsHandler(uc, &mockLookupUC{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/players/cards", nil)
	testutil.SetQueryParams(c, map[string]string{
		"season_id":    "50",
		"league_id":    "37",
		"game_type_id": "1",
		"pos_group":    "w",
		"player_ids":   "12, 40,,7",
		"page_number":  "3",
		"page_size":    "10",
	})

	handler.Read(tier.DatasetPlayerCards)(c)

	require.Equal(t, http.StatusOK, w.Code)
	q := uc.query
	assert.Equal(t, "player_cards", q.Dataset)
	assert.Nil(t, q.Principal)
	assert.Equal(t, 50, *q.SeasonID)
	assert.Equal(t, 37, *q.LeagueID)
	assert.Equal(t, 1, *q.GameTypeID)
	assert.Equal(t, "W", *q.PosGroup)
	assert.Equal(t, []int{12, 40, 7}, q.PlayerIDs)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 10, q.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body statsusecases.CardsResult
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "free", body.DataSource)
	assert.Equal(t, 4, *body.DataWeek)
}

func TestCardsHandler_PassesPrincipal(t *testing.T) {
	uc := &mockReadCardsUC{result: &statsusecases.CardsResult{DataSource: "premium"}}
	handler := NewCardsHandler(uc, &mockLookupUC{}, testutil.NewMockLogger())
	principal := testutil.NewPrincipal(t, 11)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/teams/cards", nil)
	testutil.SetPrincipal(c, principal)

	handler.Read(tier.DatasetTeamCards)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, principal, uc.query.Principal)
	assert.Equal(t, "team_cards", uc.query.Dataset)
}

func TestCardsHandler_MalformedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"season", "season_id", "fifty"},
		{"league", "league_id", "3.5"},
		{"player ids", "player_ids", "1,two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockReadCardsUC{}
			handler := NewCardsHandler(uc, &mockLookupUC{}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/players/stats", nil)
			testutil.SetQueryParams(c, map[string]string{tt.key: tt.value})

			handler.Read(tier.DatasetPlayerStats)(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(errors.ErrorTypeValidation), errorType(t, w.Body.Bytes()))
			assert.False(t, uc.called)
		})
	}
}

func TestCardsHandler_UseCaseValidationError(t *testing.T) {
	uc := &mockReadCardsUC{err: errors.NewValidationError("Validation failed", "pos_group is not supported for goalie_cards")}
	handler := NewCardsHandler(uc, &mockLookupUC{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/goalies/cards?pos_group=C", nil)

	handler.Read(tier.DatasetGoalieCards)(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
