package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

const (
	columnDataWeek    = "data_week_id"
	columnLastUpdated = "last_updated"
	columnTeamName    = "team_name"
)

// DatasetRepositoryImpl reads the analytics tables as opaque rows. Table
// names only ever come from a tier.Handle, never from the caller.
type DatasetRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewDatasetRepository(db *gorm.DB, logger logger.Interface) tier.DatasetReader {
	return &DatasetRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *DatasetRepositoryImpl) Read(ctx context.Context, req tier.ReadRequest) (*tier.ReadResult, error) {
	result := &tier.ReadResult{Rows: []tier.Row{}}

	base, week, err := r.scope(ctx, req.Handle, req.Filter, req.MaxWeek)
	if err != nil || base == nil {
		return result, err
	}
	result.DataWeek = week

	table := req.Handle.Table
	if err := base().Count(&result.Total).Error; err != nil {
		r.logger.Errorw("failed to count dataset rows", "table", table, "error", err)
		return nil, fmt.Errorf("failed to count %s: %w", req.Handle.Dataset, err)
	}
	if result.Total == 0 {
		return result, nil
	}

	var rows []map[string]interface{}
	if err := base().
		Order(req.Handle.Dataset.IDColumn() + " ASC").
		Scopes(db.Paginate(req.Limit, req.Offset)).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to read dataset rows", "table", table, "error", err)
		return nil, fmt.Errorf("failed to read %s: %w", req.Handle.Dataset, err)
	}

	for _, row := range rows {
		result.Rows = append(result.Rows, tier.Row(row))
	}
	result.LastUpdated = lastUpdated(rows)

	return result, nil
}

func (r *DatasetRepositoryImpl) Names(ctx context.Context, req tier.LookupRequest) ([]tier.NameEntry, error) {
	entries := []tier.NameEntry{}

	base, _, err := r.scope(ctx, req.Handle, req.Filter, req.MaxWeek)
	if err != nil || base == nil {
		return entries, err
	}

	idColumn, nameColumn := req.Handle.Dataset.IDColumn(), req.Handle.Dataset.NameColumn()
	var rows []struct {
		ID   int
		Name sql.NullString
	}
	if err := base().
		Select(idColumn + " AS id, " + nameColumn + " AS name").
		Order(nameColumn + " ASC").
		Scan(&rows).Error; err != nil {
		r.logger.Errorw("failed to read dataset names", "table", req.Handle.Table, "error", err)
		return nil, fmt.Errorf("failed to read %s names: %w", req.Handle.Dataset, err)
	}

	for _, row := range rows {
		name := row.Name.String
		if !row.Name.Valid {
			name = "Unknown"
		}
		entries = append(entries, tier.NameEntry{ID: row.ID, Name: name})
	}
	return entries, nil
}

func (r *DatasetRepositoryImpl) TeamNames(ctx context.Context, req tier.LookupRequest) ([]string, error) {
	names := []string{}
	if !req.Handle.Dataset.HasTeamFilter() {
		return nil, fmt.Errorf("%s has no team column", req.Handle.Dataset)
	}

	base, _, err := r.scope(ctx, req.Handle, req.Filter, req.MaxWeek)
	if err != nil || base == nil {
		return names, err
	}

	if err := base().
		Where(columnTeamName + " IS NOT NULL").
		Distinct().
		Order(columnTeamName + " ASC").
		Pluck(columnTeamName, &names).Error; err != nil {
		r.logger.Errorw("failed to read team names", "table", req.Handle.Table, "error", err)
		return nil, fmt.Errorf("failed to read %s teams: %w", req.Handle.Dataset, err)
	}
	return names, nil
}

// scope builds the filtered query for a handle. Free snapshots are pinned to
// the newest published week the caller may see; a nil builder means there is
// no such week yet.
func (r *DatasetRepositoryImpl) scope(ctx context.Context, handle tier.Handle, filter tier.CardFilter, maxWeek int) (func() *gorm.DB, *int, error) {
	table := handle.Table
	if table == "" {
		return nil, nil, fmt.Errorf("dataset handle has no table")
	}

	base := func() *gorm.DB {
		return applyCardFilter(db.Conn(ctx, r.db).Table(table), handle.Dataset, filter)
	}
	if !handle.WeekPinned() {
		return base, nil, nil
	}

	week, ok, err := r.newestWeek(base(), maxWeek)
	if err != nil {
		r.logger.Errorw("failed to resolve snapshot week", "table", table, "error", err)
		return nil, nil, fmt.Errorf("failed to resolve snapshot week: %w", err)
	}
	if !ok {
		return nil, nil, nil
	}
	return func() *gorm.DB {
		return base().Where(columnDataWeek+" = ?", week)
	}, &week, nil
}

func (r *DatasetRepositoryImpl) newestWeek(query *gorm.DB, maxWeek int) (int, bool, error) {
	var week sql.NullInt64
	if err := query.Where(columnDataWeek+" <= ?", maxWeek).
		Select("MAX(" + columnDataWeek + ")").
		Scan(&week).Error; err != nil {
		return 0, false, err
	}
	if !week.Valid {
		return 0, false, nil
	}
	return int(week.Int64), true, nil
}

func applyCardFilter(query *gorm.DB, dataset tier.Dataset, f tier.CardFilter) *gorm.DB {
	if f.SeasonID != nil {
		query = query.Where("season_id = ?", *f.SeasonID)
	}
	if f.LeagueID != nil {
		query = query.Where("league_id = ?", *f.LeagueID)
	}
	if f.GameTypeID != nil {
		query = query.Where("game_type_id = ?", *f.GameTypeID)
	}
	if f.PosGroup != nil && dataset.HasPositionFilter() {
		query = query.Where("pos_group = ?", *f.PosGroup)
	}
	if len(f.EntityIDs) > 0 {
		query = query.Where(dataset.IDColumn()+" IN ?", f.EntityIDs)
	}
	return query
}

// lastUpdated reads last_updated from the final row of the page.
func lastUpdated(rows []map[string]interface{}) *time.Time {
	if len(rows) == 0 {
		return nil
	}
	switch v := rows[len(rows)-1][columnLastUpdated].(type) {
	case time.Time:
		t := v.UTC()
		return &t
	case *time.Time:
		if v == nil {
			return nil
		}
		t := v.UTC()
		return &t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}
