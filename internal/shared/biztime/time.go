// Package biztime holds the league clock. Everything is stored in UTC; the
// league timezone only matters when an operator types a wall-clock time.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is the league's home timezone; snapshots publish on its clock.
const DefaultTimezone = "America/New_York"

// localLayouts are the wall-clock forms accepted besides RFC 3339.
var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.DateOnly,
}

var (
	league   *time.Location
	initOnce sync.Once
	initErr  error
)

// Init loads the league timezone. Later calls are no-ops.
func Init(tz string) error {
	initOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		league, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location is the league timezone, falling back to DefaultTimezone when
// Init was never called.
func Location() *time.Location {
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: load %s: %v", DefaultTimezone, err))
	}
	return league
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseWallClock reads an RFC 3339 timestamp, or a league-local date and
// optional minute, and returns it in UTC.
func ParseWallClock(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, Location()); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q: want RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD", s)
}

// Format renders t on the league clock for operator output.
func Format(t time.Time) string {
	return t.In(Location()).Format("2006-01-02 15:04 MST")
}
