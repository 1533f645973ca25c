package tier

import "fmt"

// Dataset is a logical card or stat table served in two parallel copies:
// a live premium table and a weekly free snapshot.
type Dataset string

const (
	DatasetPlayerCards Dataset = "player_cards"
	DatasetGoalieCards Dataset = "goalie_cards"
	DatasetTeamCards   Dataset = "team_cards"
	DatasetPlayerStats Dataset = "player_stats"
	DatasetGoalieStats Dataset = "goalie_stats"
	DatasetPlayoffOdds Dataset = "playoff_odds"
)

type tablePair struct {
	premium     string
	free        string
	hasPosition bool
	weekTagged  bool // snapshot rows carry data_week_id
	idColumn    string
	nameColumn  string
	teamColumn  bool
}

var tables = map[Dataset]tablePair{
	DatasetPlayerCards: {premium: "players_page", free: "players_page_free", hasPosition: true, weekTagged: true, idColumn: "player_id", nameColumn: "player_name"},
	DatasetGoalieCards: {premium: "goalies_page", free: "goalies_page_free", weekTagged: true, idColumn: "player_id", nameColumn: "player_name"},
	DatasetTeamCards:   {premium: "teams_page", free: "teams_page_free", weekTagged: true, idColumn: "team_id", nameColumn: "team_name"},
	DatasetPlayerStats: {premium: "players_stats_page", free: "players_stats_page_free", hasPosition: true, idColumn: "player_id", nameColumn: "player_name", teamColumn: true},
	DatasetGoalieStats: {premium: "goalie_stats_page", free: "goalie_stats_page_free", idColumn: "player_id", nameColumn: "player_name", teamColumn: true},
	DatasetPlayoffOdds: {premium: "playoff_odds", free: "playoff_odds_free", idColumn: "team_id", nameColumn: "team_name"},
}

// AllDatasets lists every dataset in route order.
var AllDatasets = []Dataset{
	DatasetPlayerCards,
	DatasetGoalieCards,
	DatasetTeamCards,
	DatasetPlayerStats,
	DatasetGoalieStats,
	DatasetPlayoffOdds,
}

func (d Dataset) IsValid() bool {
	_, ok := tables[d]
	return ok
}

func (d Dataset) String() string {
	return string(d)
}

// HasPositionFilter reports whether rows carry a pos_group column.
func (d Dataset) HasPositionFilter() bool {
	return tables[d].hasPosition
}

// IDColumn names the column the player_ids filter matches against.
func (d Dataset) IDColumn() string {
	return tables[d].idColumn
}

// NameColumn is the display column used by name lookups.
func (d Dataset) NameColumn() string {
	return tables[d].nameColumn
}

// HasTeamFilter reports whether rows carry a team_name a caller can filter on.
func (d Dataset) HasTeamFilter() bool {
	return tables[d].teamColumn
}

func ParseDataset(s string) (Dataset, error) {
	d := Dataset(s)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown dataset: %s", s)
	}
	return d, nil
}
