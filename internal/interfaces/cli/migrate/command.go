package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/cache"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/config"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/database"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/migration"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/seeds"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/repository"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

var (
	env     string
	name    string
	dialect string
	steps   int

	weekID     int
	seasonID   int
	releasedAt string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations, seed the plan catalog and record data releases.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
		newSeedPlansCommand(),
		newRecordReleaseCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration",
		Long:  `Create a goose SQL migration under ` + migration.ScriptsDir + `/<dialect>.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dialect, "dialect", "", "Script dialect, mysql or postgres (default: configured driver)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSeedPlansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-plans",
		Short: "Seed the plan catalog",
		Long:  `Create or refresh the Premium Subscription and Bidding Package plans from the configured Stripe price ids.`,
		RunE:  runSeedPlans,
	}
}

func newRecordReleaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record-release",
		Short: "Record a weekly data release",
		Long:  `Append a week to the data release log and drop the cached current week.`,
		RunE:  runRecordRelease,
	}

	cmd.Flags().IntVar(&weekID, "week", 0, "Released week id (required)")
	cmd.Flags().IntVar(&seasonID, "season", 0, "Season id of the release (required)")
	cmd.Flags().StringVar(&releasedAt, "released-at", "", "Release time, RFC3339 or league-local YYYY-MM-DD[ HH:MM] (default: now)")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("season")

	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env)

	if err := migration.NewGooseStrategy().Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := migration.NewGooseStrategy().MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy := migration.NewGooseStrategy()
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nMigration Status:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Environment:     %s\n", env)
	fmt.Fprintf(cmd.OutOrStdout(), "  Current Version: %d\n", version)

	if err := strategy.Status(database.Get()); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	target := dialect
	if target == "" {
		target = cfg.Database.Driver
	}

	if err := migration.NewGooseStrategy().Create(target, name); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created for %s\n", name, target)
	return nil
}

func runSeedPlans(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	planRepo := repository.NewPlanRepository(database.Get(), log)
	plans := seeds.DefaultPlans(cfg.Stripe.PriceID, cfg.Stripe.BiddingPackagePriceID)

	result, err := seeds.SeedPlans(cmd.Context(), planRepo, plans, log)
	if err != nil {
		log.Errorw("plan seeding failed", "error", err)
		return fmt.Errorf("plan seeding failed: %w", err)
	}

	log.Infow("plan seeding completed",
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged)
	return nil
}

func runRecordRelease(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	// parsed after initEnv so league-local input uses the configured timezone
	at := biztime.NowUTC()
	if releasedAt != "" {
		if at, err = biztime.ParseWallClock(releasedAt); err != nil {
			return fmt.Errorf("invalid --released-at: %w", err)
		}
	}

	ctx := cmd.Context()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// The release is still recorded; the stale cached week expires on its TTL.
		log.Warnw("redis unavailable, cached data week will not be invalidated", "error", err)
	}
	if client != nil {
		defer client.Close()
	}

	releases := cache.NewDataWeekCache(
		client,
		repository.NewDataReleaseRepository(database.Get(), log),
		cfg.Redis.DataWeekTTL(),
		log,
	)
	if err := releases.Record(ctx, weekID, seasonID, at); err != nil {
		log.Errorw("failed to record data release", "week_id", weekID, "error", err)
		return fmt.Errorf("failed to record data release: %w", err)
	}

	log.Infow("data release recorded", "week_id", weekID, "season_id", seasonID, "released_at", biztime.Format(at))
	return nil
}
