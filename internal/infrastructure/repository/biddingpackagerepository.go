package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/biddingpackage"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

const (
	tableBiddingPackage = "bidding_package"
	tableSkaterSeasons  = "bidding_package_skater_seasons"
	tableGoalieSeasons  = "bidding_package_goalie_seasons"
)

// BiddingPackageRepositoryImpl reads the signup view and the per-season
// history views the warehouse builds for it.
type BiddingPackageRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBiddingPackageRepository(db *gorm.DB, logger logger.Interface) biddingpackage.Reader {
	return &BiddingPackageRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *BiddingPackageRepositoryImpl) List(ctx context.Context, req biddingpackage.ListRequest) (*biddingpackage.ListResult, error) {
	base := func() *gorm.DB {
		return applyBiddingFilter(db.Conn(ctx, r.db).Table(tableBiddingPackage), req.Filter)
	}

	result := &biddingpackage.ListResult{Rows: []tier.Row{}}
	if err := base().Count(&result.Total).Error; err != nil {
		r.logger.Errorw("failed to count bidding package rows", "error", err)
		return nil, fmt.Errorf("failed to count bidding package: %w", err)
	}
	if result.Total == 0 {
		return result, nil
	}

	var rows []map[string]interface{}
	if err := base().
		Order(sortClause(req.Sort)).
		Scopes(db.Paginate(req.Limit, req.Offset)).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to read bidding package rows", "error", err)
		return nil, fmt.Errorf("failed to read bidding package: %w", err)
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, tier.Row(row))
	}
	return result, nil
}

func (r *BiddingPackageRepositoryImpl) Player(ctx context.Context, playerID int) (tier.Row, error) {
	var rows []map[string]interface{}
	if err := db.Conn(ctx, r.db).Table(tableBiddingPackage).
		Where("player_id = ?", playerID).
		Limit(1).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to read bidding package player", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to read bidding package player: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return tier.Row(rows[0]), nil
}

func (r *BiddingPackageRepositoryImpl) Seasons(ctx context.Context, playerID int, goalie bool) ([]tier.Row, error) {
	table := tableSkaterSeasons
	if goalie {
		table = tableGoalieSeasons
	}

	var rows []map[string]interface{}
	if err := db.Conn(ctx, r.db).Table(table).
		Where("player_id = ?", playerID).
		Order("season_id DESC, league_id ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to read player seasons", "player_id", playerID, "table", table, "error", err)
		return nil, fmt.Errorf("failed to read player seasons: %w", err)
	}

	seasons := make([]tier.Row, 0, len(rows))
	for _, row := range rows {
		seasons = append(seasons, tier.Row(row))
	}
	return seasons, nil
}

func applyBiddingFilter(query *gorm.DB, f biddingpackage.Filter) *gorm.DB {
	if f.Search != nil {
		query = query.Where("LOWER(player_name) LIKE ?", "%"+strings.ToLower(*f.Search)+"%")
	}
	if f.Position != nil {
		query = query.Where("position = ?", *f.Position)
	}
	if f.PosGroup != nil {
		query = query.Where("pos_group = ?", *f.PosGroup)
	}
	if f.Server != nil {
		query = query.Where("server = ?", *f.Server)
	}
	if f.Console != nil {
		query = query.Where("console = ?", *f.Console)
	}
	if !f.ShowRostered {
		query = query.Where("is_rostered = ?", false)
	}
	if f.LastSeasonID != nil {
		query = query.Where("last_season_id = ?", *f.LastSeasonID)
	}
	if f.LastLeagueID != nil {
		query = query.Where("last_league_id = ?", *f.LastLeagueID)
	}
	return query
}

// sortClause only ever sees a column from biddingpackage.SortableColumns.
// The IS NULL key keeps null placement the same on every dialect.
func sortClause(s biddingpackage.Sort) string {
	if s.Descending {
		return fmt.Sprintf("(%s IS NULL) ASC, %s DESC", s.Column, s.Column)
	}
	return fmt.Sprintf("(%s IS NULL) DESC, %s ASC", s.Column, s.Column)
}
