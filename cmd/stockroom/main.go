// Package main is the interactive Stockroom client.
// It manages a signed-in user's inventory against either the embedded
// local database or the remote API server, switchable mid-session.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/repository"
	"github.com/prn-tf/stockroom/internal/repository/remote"
	"github.com/prn-tf/stockroom/internal/repository/sqlite"
	"github.com/prn-tf/stockroom/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("stockroom %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
		return
	}

	// .env is a development convenience; deployments set real environment
	// variables.
	_ = godotenv.Load()

	// Initialize logger
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.MustLoad(*configPath)

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Logger.Level(level)

	app, err := newApp(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	app.run(context.Background())
}

// app wires the persistence facade and the business flows to a terminal
// session. It is kept thin: prompts in, service calls out.
type app struct {
	in    *bufio.Scanner
	out   io.Writer
	store *repository.Store
	auth  *service.AuthService
	inv   *service.InventoryService

	// items is the listing as last rendered; inc/dec/rm arguments resolve
	// against it so ids stay stable while the user is typing.
	items []*domain.Item
}

func newApp(cfg *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer) (*app, error) {
	mode, err := repository.ParseMode(cfg.Store.Mode)
	if err != nil {
		return nil, err
	}

	// The local backend opens the database file lazily on first use; the
	// directory has to exist by then.
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	local := sqlite.NewLocalStore(localConfig(cfg.Database), logger)
	remoteClient := remote.NewClient(cfg.Remote, cfg.Auth, logger)
	store := repository.NewStore(local, remoteClient, mode, logger)

	return &app{
		in:    bufio.NewScanner(in),
		out:   out,
		store: store,
		auth:  service.NewAuthService(store, logger),
		inv:   service.NewInventoryService(store, logger),
	}, nil
}

// localConfig maps the flat database section onto the sqlite package config.
// Unset tuning fields keep the package defaults.
func localConfig(cfg config.DatabaseConfig) sqlite.Config {
	sc := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		sc.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		sc.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		sc.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		sc.SynchronousMode = cfg.SynchronousMode
	}
	return sc
}

// run drives the login screen until the user quits or stdin closes.
func (a *app) run(ctx context.Context) {
	fmt.Fprintf(a.out, "Stockroom %s\n", Version)

	for {
		choice, ok := a.prompt("login, register or quit: ")
		if !ok {
			return
		}

		switch choice {
		case "login":
			user := a.login(ctx)
			if user == nil {
				continue
			}
			if !a.session(ctx, user) {
				return
			}
		case "register":
			a.register(ctx)
		case "quit":
			return
		case "":
			// Empty line, re-prompt.
		default:
			fmt.Fprintln(a.out, "Unknown choice.")
		}
	}
}

func (a *app) register(ctx context.Context) {
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := a.prompt("Password: ")
	if !ok {
		return
	}
	confirm, ok := a.prompt("Confirm password: ")
	if !ok {
		return
	}

	err := a.auth.Register(ctx, service.RegisterInput{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
	})
	switch {
	case err == nil:
		fmt.Fprintln(a.out, service.MsgSuccess)
	case errors.Is(err, service.ErrPasswordMismatch):
		fmt.Fprintln(a.out, service.MsgPasswordMismatch)
	case errors.Is(err, service.ErrUsernameTaken):
		fmt.Fprintln(a.out, service.MsgUsernameTaken)
	case errors.Is(err, service.ErrRegistrationFailed):
		fmt.Fprintln(a.out, service.MsgRegistrationFailed)
	default:
		fmt.Fprintln(a.out, service.MsgTryAgain)
	}
}

func (a *app) login(ctx context.Context) *domain.User {
	username, ok := a.prompt("Username: ")
	if !ok {
		return nil
	}
	password, ok := a.prompt("Password: ")
	if !ok {
		return nil
	}

	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(a.out, service.MsgLoginFailed)
		return nil
	}
	return user
}

// session runs the signed-in command loop. It returns true to go back to
// the login screen and false to exit the program.
func (a *app) session(ctx context.Context, user *domain.User) bool {
	fmt.Fprintf(a.out, "Welcome %s\n", user.Username)
	fmt.Fprintln(a.out, "Commands: add, inc <id>, dec <id>, rm <id>, list, mode, logout, quit")
	a.renderInventory(ctx, user)

	for {
		line, ok := a.prompt("> ")
		if !ok {
			return false
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "add":
			a.addItem(ctx, user)
			a.renderInventory(ctx, user)
		case "inc":
			a.incrementItem(ctx, args)
			a.renderInventory(ctx, user)
		case "dec":
			a.decrementItem(ctx, args)
			a.renderInventory(ctx, user)
		case "rm":
			a.removeItem(ctx, args)
			a.renderInventory(ctx, user)
		case "list":
			a.renderInventory(ctx, user)
		case "mode":
			a.store.Toggle()
			a.renderInventory(ctx, user)
		case "logout":
			a.items = nil
			return true
		case "quit":
			return false
		default:
			fmt.Fprintln(a.out, "Unknown command.")
		}
	}
}

// renderInventory prints the mode banner and the user's current items,
// refreshing the session listing snapshot.
func (a *app) renderInventory(ctx context.Context, user *domain.User) {
	if a.store.Mode() == repository.ModeRemote {
		fmt.Fprintln(a.out, "Database is Remote")
	} else {
		fmt.Fprintln(a.out, "Database is Local")
	}

	items, err := a.inv.List(ctx, user.ID)
	a.items = items
	if err != nil {
		a.printStoreError()
		return
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%4d %s\n", item.ID, item)
	}
}

func (a *app) addItem(ctx context.Context, user *domain.User) {
	title, ok := a.prompt("Title: ")
	if !ok {
		return
	}
	description, ok := a.prompt("Description: ")
	if !ok {
		return
	}
	quantity, ok := a.prompt("Quantity: ")
	if !ok {
		return
	}

	_, err := a.inv.Add(ctx, service.AddItemInput{
		Title:       title,
		Description: description,
		Quantity:    quantity,
		UserID:      user.ID,
	})
	if err != nil {
		a.printStoreError()
		return
	}
	fmt.Fprintln(a.out, service.MsgSuccess)
}

func (a *app) incrementItem(ctx context.Context, args []string) {
	item := a.itemArg(args)
	if item == nil {
		return
	}
	if err := a.inv.Increment(ctx, item); err != nil {
		a.printStoreError()
	}
}

func (a *app) decrementItem(ctx context.Context, args []string) {
	item := a.itemArg(args)
	if item == nil {
		return
	}

	event, err := a.inv.Decrement(ctx, item)
	if err != nil {
		a.printStoreError()
		return
	}
	if event == domain.EventQuantityReachedZero {
		fmt.Fprintf(a.out, service.MsgOutOfStockFormat+"\n", item.Title)
	}
}

func (a *app) removeItem(ctx context.Context, args []string) {
	item := a.itemArg(args)
	if item == nil {
		return
	}
	if err := a.inv.Remove(ctx, item); err != nil {
		a.printStoreError()
	}
}

// itemArg resolves a command's id argument against the rendered listing.
func (a *app) itemArg(args []string) *domain.Item {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Item id required.")
		return nil
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Item id must be a number.")
		return nil
	}

	for _, item := range a.items {
		if item.ID == id {
			return item
		}
	}
	fmt.Fprintln(a.out, "No such item.")
	return nil
}

// printStoreError surfaces a store failure with the message matching the
// active backend.
func (a *app) printStoreError() {
	if a.store.Mode() == repository.ModeRemote {
		fmt.Fprintln(a.out, service.MsgRemoteUnavailable)
	} else {
		fmt.Fprintln(a.out, service.MsgTryAgain)
	}
}

// prompt prints the label and reads one trimmed line. ok is false once
// stdin is closed.
func (a *app) prompt(label string) (value string, ok bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}
