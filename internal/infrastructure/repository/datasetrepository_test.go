package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/testdb"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

var datasetDDL = testdb.WithDDL(
	`CREATE TABLE players_page (player_id INTEGER, season_id INTEGER, league_id INTEGER, game_type_id INTEGER, pos_group TEXT, player_name TEXT, last_updated DATETIME)`,
	`CREATE TABLE players_page_free (player_id INTEGER, season_id INTEGER, league_id INTEGER, game_type_id INTEGER, pos_group TEXT, player_name TEXT, last_updated DATETIME, data_week_id INTEGER)`,
	`CREATE TABLE playoff_odds_free (team_id INTEGER, season_id INTEGER, league_id INTEGER, playoff_odds REAL, last_updated DATETIME)`,
	`INSERT INTO players_page VALUES (1, 50, 37, 1, 'C', 'Live One', '2025-01-08 10:00:00'), (2, 50, 37, 1, 'W', 'Live Two', '2025-01-08 10:00:00'), (3, 50, 37, 1, 'C', 'Live Three', '2025-01-09 10:00:00')`,
	`INSERT INTO players_page_free VALUES
		(1, 50, 37, 1, 'C', 'Week Two', '2025-01-01 00:00:00', 2),
		(1, 50, 37, 1, 'C', 'Week Three', '2025-01-08 00:00:00', 3),
		(2, 50, 37, 1, 'C', 'Week Three B', '2025-01-08 00:00:00', 3),
		(1, 50, 37, 1, 'C', 'Week Four', '2025-01-15 00:00:00', 4)`,
	`INSERT INTO playoff_odds_free VALUES (10, 50, 37, 55.5, '2025-01-08 00:00:00'), (11, 50, 37, 12.0, '2025-01-08 00:00:00')`,
	`CREATE TABLE players_stats_page (player_id INTEGER, season_id INTEGER, league_id INTEGER, game_type_id INTEGER, pos_group TEXT, player_name TEXT, team_name TEXT, last_updated DATETIME)`,
	`INSERT INTO players_stats_page VALUES
		(5, 50, 37, 1, 'D', 'Zed', 'Wolves', '2025-01-08 00:00:00'),
		(6, 50, 37, 1, 'D', 'Abe', 'Bears', '2025-01-08 00:00:00'),
		(7, 50, 37, 1, 'D', NULL, NULL, '2025-01-08 00:00:00'),
		(8, 50, 37, 1, 'C', 'Cal', 'Wolves', '2025-01-08 00:00:00'),
		(9, 51, 37, 1, 'D', 'Dee', 'Owls', '2025-01-08 00:00:00')`,
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func handle(t *testing.T, a tier.Access, d tier.Dataset) tier.Handle {
	t.Helper()
	h, err := tier.SelectDataset(a, d)
	require.NoError(t, err)
	return h
}

func TestDatasetRepository_PremiumReadsLiveTable(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	res, err := reader.Read(context.Background(), tier.ReadRequest{
		Handle: handle(t, tier.AccessPremium, tier.DatasetPlayerCards),
		Filter: tier.CardFilter{SeasonID: intPtr(50), LeagueID: intPtr(37), PosGroup: strPtr("C")},
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Live One", res.Rows[0]["player_name"])
	assert.Nil(t, res.DataWeek)
	require.NotNil(t, res.LastUpdated)
	assert.Equal(t, 9, res.LastUpdated.Day())
}

func TestDatasetRepository_FreeReadPinnedToNewestAllowedWeek(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	res, err := reader.Read(context.Background(), tier.ReadRequest{
		Handle:  handle(t, tier.AccessFree, tier.DatasetPlayerCards),
		Filter:  tier.CardFilter{PosGroup: strPtr("C")},
		MaxWeek: 3,
		Limit:   10,
	})
	require.NoError(t, err)
	require.NotNil(t, res.DataWeek)
	assert.Equal(t, 3, *res.DataWeek)
	assert.Equal(t, int64(2), res.Total)
	for _, row := range res.Rows {
		assert.EqualValues(t, 3, row["data_week_id"])
	}
}

func TestDatasetRepository_FreeReadFallsBackToOlderWeek(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	// Week 2 is the newest snapshot this caller may see.
	res, err := reader.Read(context.Background(), tier.ReadRequest{
		Handle:  handle(t, tier.AccessFree, tier.DatasetPlayerCards),
		Filter:  tier.CardFilter{EntityIDs: []int{1}},
		MaxWeek: 2,
		Limit:   10,
	})
	require.NoError(t, err)
	require.NotNil(t, res.DataWeek)
	assert.Equal(t, 2, *res.DataWeek)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Week Two", res.Rows[0]["player_name"])
}

func TestDatasetRepository_NoSnapshotYet(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	res, err := reader.Read(context.Background(), tier.ReadRequest{
		Handle:  handle(t, tier.AccessAnonymous, tier.DatasetPlayerCards),
		MaxWeek: 1,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Nil(t, res.DataWeek)
	assert.Zero(t, res.Total)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestDatasetRepository_UntaggedSnapshotIgnoresWeek(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	res, err := reader.Read(context.Background(), tier.ReadRequest{
		Handle: handle(t, tier.AccessFree, tier.DatasetPlayoffOdds),
		// pos_group does not exist on playoff odds and must be skipped.
		Filter:  tier.CardFilter{SeasonID: intPtr(50), PosGroup: strPtr("C")},
		MaxWeek: 0,
		Limit:   1,
		Offset:  1,
	})
	require.NoError(t, err)
	assert.Nil(t, res.DataWeek)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 11, res.Rows[0]["team_id"])
}

func TestDatasetRepository_NamesOrderedByName(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	names, err := reader.Names(context.Background(), tier.LookupRequest{
		Handle: handle(t, tier.AccessPremium, tier.DatasetPlayerStats),
		Filter: tier.CardFilter{SeasonID: intPtr(50), LeagueID: intPtr(37), PosGroup: strPtr("D")},
	})
	require.NoError(t, err)
	require.Len(t, names, 3)
	// NULL sorts first in sqlite
	assert.Equal(t, tier.NameEntry{ID: 7, Name: "Unknown"}, names[0])
	assert.Equal(t, tier.NameEntry{ID: 6, Name: "Abe"}, names[1])
	assert.Equal(t, tier.NameEntry{ID: 5, Name: "Zed"}, names[2])
}

func TestDatasetRepository_NamesPinnedToSnapshotWeek(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	names, err := reader.Names(context.Background(), tier.LookupRequest{
		Handle:  handle(t, tier.AccessFree, tier.DatasetPlayerCards),
		MaxWeek: 3,
	})
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "Week Three", names[0].Name)
	assert.Equal(t, "Week Three B", names[1].Name)

	none, err := reader.Names(context.Background(), tier.LookupRequest{
		Handle:  handle(t, tier.AccessFree, tier.DatasetPlayerCards),
		MaxWeek: 1,
	})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDatasetRepository_TeamNamesDistinct(t *testing.T) {
	f := newFixture(t, datasetDDL)
	reader := NewDatasetRepository(f.db, logger.NewNopLogger())

	teams, err := reader.TeamNames(context.Background(), tier.LookupRequest{
		Handle: handle(t, tier.AccessPremium, tier.DatasetPlayerStats),
		Filter: tier.CardFilter{SeasonID: intPtr(50), LeagueID: intPtr(37)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bears", "Wolves"}, teams)

	_, err = reader.TeamNames(context.Background(), tier.LookupRequest{
		Handle: handle(t, tier.AccessPremium, tier.DatasetPlayerCards),
	})
	assert.Error(t, err)
}
