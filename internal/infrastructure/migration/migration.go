package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Manager runs the schema migration for the configured environment.
type Manager struct {
	strategy Strategy
	log      logger.Interface
}

// NewManager uses gorm AutoMigrate for development and for sqlite, and the
// embedded goose scripts everywhere else.
func NewManager(environment string, db *gorm.DB) *Manager {
	return NewManagerWithStrategy(strategyFor(environment, db.Dialector.Name()))
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		log:      logger.NewLogger().Named("migration"),
	}
}

func strategyFor(environment, driver string) Strategy {
	if driver == "sqlite" || strings.EqualFold(environment, constants.EnvDevelopment) {
		return NewGormAutoMigrateStrategy()
	}
	return NewGooseStrategy()
}

// Migrate brings the schema up to date. models only matter to AutoMigrate.
func (m *Manager) Migrate(db *gorm.DB, models ...any) error {
	name := m.strategy.GetName()
	m.log.Infow("migrating schema", "strategy", name, "models", len(models))

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.log.Errorw("schema migration failed", "strategy", name, "error", err)
		return fmt.Errorf("migrate with %s: %w", name, err)
	}

	m.log.Infow("schema up to date", "strategy", name)
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
