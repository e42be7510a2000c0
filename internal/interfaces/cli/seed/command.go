package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fastighet/internal/infrastructure/config"
	"fastighet/internal/infrastructure/database"
	"fastighet/internal/infrastructure/migration"
	"fastighet/internal/infrastructure/persistence/seeds"
	"fastighet/internal/infrastructure/repository"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/logger"
)

var (
	env         string
	fixturePath string
	migrate     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
		Long: `Create properties, units, users and ticket categories from a YAML fixture.
Rows that already exist are left untouched, so the command can be re-run safely.
Without --file the embedded development fixture is used.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&fixturePath, "file", "f", "", "Path to a YAML fixture")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run migrations before seeding")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	fixture, err := loadFixture()
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	gdb := database.Get()
	if migrate {
		if err := migration.NewManager(cfg.Database.Driver, env).Migrate(gdb); err != nil {
			return err
		}
	}

	seeder := seeds.NewSeeder(
		repository.NewUserRepository(gdb, log),
		repository.NewPropertyRepository(gdb),
		repository.NewCategoryRepository(gdb),
		db.NewTransactionManager(gdb),
		log.Named("seeds"),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	result, err := seeder.Run(ctx, fixture)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Printf("Seed applied: %d properties, %d units, %d users, %d categories created\n",
		result.Properties, result.Units, result.Users, result.Categories)
	return nil
}

func loadFixture() (*seeds.Fixture, error) {
	if fixturePath == "" {
		return seeds.DefaultFixture()
	}
	return seeds.LoadFixture(fixturePath)
}
