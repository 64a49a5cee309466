// Package main is the entry point for the Stockroom admin CLI.
// It provides operational commands that act directly on the configured
// database: user management, schema reset, and API key tooling.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/pkg/crypto"
	"github.com/prn-tf/stockroom/internal/repository"
	"github.com/prn-tf/stockroom/internal/repository/postgres"
	"github.com/prn-tf/stockroom/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// .env is a development convenience; deployments set real environment
	// variables.
	_ = godotenv.Load()

	// Initialize logger
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "user":
		err = runUser(os.Args[2:])

	case "db":
		err = runDB(os.Args[2:])

	case "key":
		err = runKey(os.Args[2:])

	case "version":
		fmt.Printf("Stockroom Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user requires a subcommand: create, list")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		username := fs.String("username", "", "username for the new user")
		password := fs.String("password", "", "password for the new user")
		configPath := fs.String("config", "", "path to a config file (optional)")
		_ = fs.Parse(args[1:])

		if *username == "" || *password == "" {
			return fmt.Errorf("user create requires -username and -password")
		}

		ctx := context.Background()
		repos, db, err := openDatabase(ctx, *configPath)
		if err != nil {
			return err
		}
		defer db.Close()

		// The schema has no unique constraint on usernames; the duplicate
		// check lives in application code, so the admin path repeats it.
		existing, err := repos.Users.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range existing {
			if u.Username == *username {
				return fmt.Errorf("username %q is already taken", *username)
			}
		}

		user := domain.NewUser(*username, crypto.HashPassword(*password))
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
		return nil

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to a config file (optional)")
		_ = fs.Parse(args[1:])

		ctx := context.Background()
		repos, db, err := openDatabase(ctx, *configPath)
		if err != nil {
			return err
		}
		defer db.Close()

		users, err := repos.Users.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range users {
			fmt.Printf("%4d  %s\n", u.ID, u.Username)
		}
		fmt.Printf("%d user(s)\n", len(users))
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runDB(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("db requires a subcommand: reset")
	}

	switch args[0] {
	case "reset":
		fs := flag.NewFlagSet("db reset", flag.ExitOnError)
		configPath := fs.String("config", "", "path to a config file (optional)")
		yes := fs.Bool("yes", false, "skip the confirmation prompt")
		_ = fs.Parse(args[1:])

		if !*yes {
			fmt.Print("This drops every user and item. Type 'yes' to continue: ")
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}

		ctx := context.Background()
		_, db, err := openDatabase(ctx, *configPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("database schema reset")
		return nil

	default:
		return fmt.Errorf("unknown db subcommand: %s", args[0])
	}
}

func runKey(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("key requires a subcommand: encrypt")
	}

	switch args[0] {
	case "encrypt":
		fs := flag.NewFlagSet("key encrypt", flag.ExitOnError)
		configPath := fs.String("config", "", "path to a config file (optional)")
		_ = fs.Parse(args[1:])

		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		key, err := cfg.Auth.GetEncryptionKey()
		if err != nil {
			return err
		}
		iv, err := cfg.Auth.GetEncryptionIV()
		if err != nil {
			return err
		}
		enc, err := crypto.NewEncryptor(key, iv)
		if err != nil {
			return err
		}

		// The value every request carries in the X-encrypted-api-key
		// header, ready for curl.
		fmt.Println(enc.EncryptString(cfg.Auth.APIKey))
		return nil

	default:
		return fmt.Errorf("unknown key subcommand: %s", args[0])
	}
}

// adminDB is the database surface the admin commands need beyond the
// repositories: the destructive reset and shutdown.
type adminDB interface {
	Reset(ctx context.Context) error
	Close() error
}

// openDatabase connects the configured driver the same way the server does.
func openDatabase(ctx context.Context, configPath string) (repository.Repositories, adminDB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return repository.Repositories{}, nil, err
	}

	logger := log.Logger.Level(zerolog.WarnLevel)

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return repository.Repositories{
			Items: postgres.NewItemRepository(db),
			Users: postgres.NewUserRepository(db),
		}, db, nil

	default: // sqlite, enforced by config validation
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return repository.Repositories{}, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return repository.Repositories{
			Items: sqlite.NewItemRepository(db),
			Users: sqlite.NewUserRepository(db),
		}, db, nil
	}
}

func printUsage() {
	fmt.Println(`Stockroom Admin CLI

Usage:
  stockroom-admin <command> [arguments]

Commands:
  user create   Create a user (-username, -password)
  user list     List all users
  db reset      Drop and recreate the database schema (destructive)
  key encrypt   Print the encrypted API key header value
  version       Print version information
  help          Show this help message

Examples:
  stockroom-admin user create -username admin -password secret
  stockroom-admin user list
  stockroom-admin db reset -yes
  stockroom-admin key encrypt

All commands read the same configuration as the server: config.yaml in the
working directory or STOCKROOM_* environment variables.`)
}
