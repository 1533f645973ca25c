package tier

import (
	"fmt"
	"time"
)

// Source tags which copy of a dataset a handle points at.
type Source string

const (
	SourcePremium Source = "premium"
	SourceFree    Source = "free"
)

// Access is the caller's resolved tier. Anonymous and Free read the same
// data; they are kept apart for logging and metrics.
type Access int

const (
	AccessAnonymous Access = iota
	AccessFree
	AccessPremium
)

func (a Access) String() string {
	switch a {
	case AccessPremium:
		return "premium"
	case AccessFree:
		return "free"
	default:
		return "anonymous"
	}
}

// AccessFor turns an optional principal's premium entitlement into an Access.
func AccessFor(authenticated, premium bool) Access {
	switch {
	case !authenticated:
		return AccessAnonymous
	case premium:
		return AccessPremium
	default:
		return AccessFree
	}
}

// Handle is the result of routing: which table to read and why.
// Callers switch on Source instead of re-checking permissions.
type Handle struct {
	Dataset Dataset
	Source  Source
	Table   string
}

// IsSnapshot reports whether reads must be pinned to a data week.
func (h Handle) IsSnapshot() bool {
	return h.Source == SourceFree
}

// WeekPinned reports whether the snapshot table is tagged by data week, so
// reads can be bounded to the newest week the caller may see.
func (h Handle) WeekPinned() bool {
	return h.IsSnapshot() && tables[h.Dataset].weekTagged
}

// SelectDataset picks the premium table for premium callers and the free
// snapshot for everyone else.
func SelectDataset(access Access, dataset Dataset) (Handle, error) {
	pair, ok := tables[dataset]
	if !ok {
		return Handle{}, fmt.Errorf("unknown dataset: %s", dataset)
	}
	if access == AccessPremium {
		return Handle{Dataset: dataset, Source: SourcePremium, Table: pair.premium}, nil
	}
	return Handle{Dataset: dataset, Source: SourceFree, Table: pair.free}, nil
}

// AllowedDataWeek is the newest week the caller may see: the current week
// for premium, one publishing cycle behind (floored at 0) for everyone else.
func AllowedDataWeek(access Access, currentWeek int) int {
	if access == AccessPremium {
		return currentWeek
	}
	return max(0, currentWeek-1)
}

// FreshnessMessage explains delayed data. It is nil when the caller is current.
func FreshnessMessage(access Access, currentWeek int) *string {
	allowed := AllowedDataWeek(access, currentWeek)
	behind := currentWeek - allowed
	if behind <= 0 {
		return nil
	}

	unit := "weeks"
	if behind == 1 {
		unit = "week"
	}
	msg := fmt.Sprintf("You're viewing data from %d %s ago. Subscribe for real-time updates after each game night.", behind, unit)
	return &msg
}

// IsDataReleaseDay reports whether now falls on the weekly publishing day
// (Wednesday, UTC).
func IsDataReleaseDay(now time.Time) bool {
	return now.UTC().Weekday() == time.Wednesday
}
