package tier

import (
	"context"
	"time"
)

// CardFilter narrows a dataset read. Nil fields are not applied.
type CardFilter struct {
	SeasonID   *int
	LeagueID   *int
	GameTypeID *int
	PosGroup   *string
	EntityIDs  []int
}

// ReadRequest is a routed, paged read. MaxWeek bounds week-pinned snapshots.
type ReadRequest struct {
	Handle  Handle
	Filter  CardFilter
	MaxWeek int
	Limit   int
	Offset  int
}

// Row is an opaque record from a dataset table.
type Row map[string]interface{}

type ReadResult struct {
	Rows  []Row
	Total int64
	// DataWeek is the snapshot week actually served, nil for unpinned reads.
	DataWeek    *int
	LastUpdated *time.Time
}

// LookupRequest is a routed, unpaged read used by autocomplete and filter
// menus. It is pinned to a data week the same way as ReadRequest.
type LookupRequest struct {
	Handle  Handle
	Filter  CardFilter
	MaxWeek int
}

// NameEntry is one autocomplete result.
type NameEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DatasetReader executes routed reads against the dataset tables.
type DatasetReader interface {
	Read(ctx context.Context, req ReadRequest) (*ReadResult, error)

	// Names lists id and display name ordered by name.
	Names(ctx context.Context, req LookupRequest) ([]NameEntry, error)

	// TeamNames lists the distinct non-null team names in alphabetical order.
	TeamNames(ctx context.Context, req LookupRequest) ([]string, error)
}

// ReleaseRepository exposes the weekly publishing log.
type ReleaseRepository interface {
	// CurrentWeek returns MAX(week_id), or 0 before the first release.
	CurrentWeek(ctx context.Context) (int, error)
	Record(ctx context.Context, weekID, seasonID int, releasedAt time.Time) error
}
