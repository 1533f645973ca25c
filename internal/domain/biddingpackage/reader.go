// Package biddingpackage describes the signup scouting data sold as the
// one-time bidding package.
package biddingpackage

import (
	"context"
	"fmt"
	"slices"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
)

// SortableColumns are the columns a listing may be ordered by.
var SortableColumns = []string{
	"player_name",
	"position",
	"pos_group",
	"status",
	"server",
	"console",
	"is_rostered",
	"last_season_id",
	"last_league_name",
	"games_played",
	"wins",
	"losses",
	"points",
	"war_percentile",
	"team_percentile",
	"sos_percentile",
}

const (
	DefaultSortColumn = "war_percentile"
	PosGroupGoalie    = "G"
)

// Filter narrows a listing. Nil fields are not applied.
type Filter struct {
	Search       *string
	Position     *string
	PosGroup     *string
	Server       *string
	Console      *string
	ShowRostered bool
	LastSeasonID *int
	LastLeagueID *int
}

// Sort orders a listing. Nulls trail a descending sort and lead an
// ascending one.
type Sort struct {
	Column     string
	Descending bool
}

func NewSort(column, order string) (Sort, error) {
	if column == "" {
		column = DefaultSortColumn
	}
	if !slices.Contains(SortableColumns, column) {
		return Sort{}, fmt.Errorf("invalid sort column: %s", column)
	}

	switch order {
	case "", "desc":
		return Sort{Column: column, Descending: true}, nil
	case "asc":
		return Sort{Column: column}, nil
	default:
		return Sort{}, fmt.Errorf("invalid sort order: %s", order)
	}
}

type ListRequest struct {
	Filter Filter
	Sort   Sort
	Limit  int
	Offset int
}

type ListResult struct {
	Rows  []tier.Row
	Total int64
}

// Reader reads the bidding package tables as opaque rows.
type Reader interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)

	// Player returns the signup row for a player, nil when absent.
	Player(ctx context.Context, playerID int) (tier.Row, error)

	// Seasons lists a player's regular season history, newest first.
	Seasons(ctx context.Context, playerID int, goalie bool) ([]tier.Row, error)
}
