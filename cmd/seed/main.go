package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"blogly/internal/config"
	"blogly/internal/db"
	"blogly/internal/repository"
	"blogly/internal/service"
)

type options struct {
	source string
	reset  bool
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, tags and posts from a YAML fixture",
		Long: "Reads a fixture from a file path or an http(s) URL and creates its " +
			"tags, users and posts through the same services the API uses.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.Load(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "file", "f", "fixtures/seed.yaml", "fixture path or URL")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "drop and recreate all tables before seeding")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	fx, err := loadFixture(ctx, opts.source)
	if err != nil {
		return err
	}
	slog.Info("fixture loaded",
		slog.String("source", opts.source),
		slog.Int("tags", len(fx.Tags)),
		slog.Int("users", len(fx.Users)),
	)

	gormDB, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gormDB, opts.reset || cfg.ResetDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store := repository.NewStore(gormDB)
	coord := service.NewCoordinator(store, slog.Default())
	assoc := service.NewAssociationManager()
	s := &seeder{
		users: service.NewUserService(store, coord, assoc, nil, service.CascadePosts),
		posts: service.NewPostService(store, coord, assoc),
		tags:  service.NewTagService(store, coord, assoc),
	}

	summary, err := s.seed(ctx, fx)
	if err != nil {
		return err
	}
	slog.Info("seed completed",
		slog.Int("tags_created", summary.Tags),
		slog.Int("tags_existing", summary.TagsExisting),
		slog.Int("users_created", summary.Users),
		slog.Int("posts_created", summary.Posts),
	)
	return nil
}
