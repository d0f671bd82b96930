// nameadmin is the operations tool for the name catalog: bulk import,
// seeding, backups and the destructive reset.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"name-swiper/internal/config"
	"name-swiper/internal/models"
	"name-swiper/internal/repository"
	"name-swiper/internal/services"
)

const usage = `Usage: nameadmin [-config path] <command> [args]

Commands:
  import <file.json>   bulk import names from a JSON file
  seed-tags            create the default tag set
  seed-users           create the two configured profiles
  backup               write a catalog snapshot to S3
  reset --yes [file]   wipe names, votes and tags, reseed defaults, optionally
                       reimport from a JSON file (backs up first when S3 is configured)
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("nameadmin failed")
	}
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := repository.InitSchema(ctx, db); err != nil {
		return err
	}

	names := repository.NewNameRepository(db)
	profiles := repository.NewProfileRepository(db)
	tags := repository.NewTagRepository(db)

	switch args[0] {
	case "import":
		if len(args) < 2 {
			return errors.New("import needs a JSON file argument")
		}
		return runImport(ctx, names, tags, args[1])
	case "seed-tags":
		return runSeedTags(ctx, tags)
	case "seed-users":
		return runSeedUsers(ctx, profiles, cfg.Users)
	case "backup":
		return runBackup(ctx, names, cfg)
	case "reset":
		if len(args) < 2 || args[1] != "--yes" {
			return errors.New("reset deletes every name, vote and tag; pass --yes to confirm")
		}
		var reimport string
		if len(args) > 2 {
			reimport = args[2]
		}
		return runReset(ctx, names, profiles, tags, cfg, reimport)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// importEntry is one record in the import file.
type importEntry struct {
	Name   string        `json:"name"`
	Gender models.Gender `json:"gender"`
	Tags   []string      `json:"tags,omitempty"`
}

func runImport(ctx context.Context, names *repository.NameRepository, tags *repository.TagRepository, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var entries []importEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	catalog := services.NewCatalogService(names, tags)

	var imported, skipped int
	for _, entry := range entries {
		_, err := catalog.CreateName(ctx, entry.Name, entry.Gender, nil, "import", models.SourceImport)
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			skipped++
			log.Debug().Str("name", entry.Name).Msg("Skipping duplicate")
		case err != nil:
			return fmt.Errorf("import %q: %w", entry.Name, err)
		default:
			imported++
		}
	}

	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("Import finished")
	return nil
}

func runSeedTags(ctx context.Context, tags *repository.TagRepository) error {
	created, err := services.NewTagService(tags).SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	log.Info().Int("tags", len(created)).Msg("Default tags seeded")
	return nil
}

func runSeedUsers(ctx context.Context, profiles *repository.ProfileRepository, users config.UsersConfig) error {
	for _, name := range users.Pair() {
		p := &models.Profile{
			DisplayName: name,
			Votes:       map[string]models.Vote{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := profiles.CreateIfAbsent(ctx, p); err != nil {
			return fmt.Errorf("seed profile %q: %w", name, err)
		}
		log.Info().Str("user", name).Msg("Profile ready")
	}
	return nil
}

func runBackup(ctx context.Context, names *repository.NameRepository, cfg *config.Config) error {
	if cfg.AWS.S3Bucket == "" {
		return errors.New("no S3 bucket configured")
	}
	backup, err := services.NewBackupService(names, cfg.AWS)
	if err != nil {
		return fmt.Errorf("init backup: %w", err)
	}
	key, err := backup.Backup(ctx)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	log.Info().Str("key", key).Msg("Catalog snapshot written")
	return nil
}

func runReset(ctx context.Context, names *repository.NameRepository, profiles *repository.ProfileRepository, tags *repository.TagRepository, cfg *config.Config, reimport string) error {
	if cfg.AWS.S3Bucket != "" {
		if err := runBackup(ctx, names, cfg); err != nil {
			return fmt.Errorf("pre-reset backup: %w", err)
		}
	} else {
		log.Warn().Msg("No S3 bucket configured, resetting without a backup")
	}

	deletedNames, err := names.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete names: %w", err)
	}
	deletedTags, err := tags.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	if err := profiles.ClearVotes(ctx); err != nil {
		return fmt.Errorf("clear vote ledgers: %w", err)
	}
	if err := runSeedTags(ctx, tags); err != nil {
		return err
	}

	log.Info().
		Int64("names_deleted", deletedNames).
		Int64("tags_deleted", deletedTags).
		Msg("Catalog reset")

	if reimport != "" {
		return runImport(ctx, names, tags, reimport)
	}
	return nil
}
