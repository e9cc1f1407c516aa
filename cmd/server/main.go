package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/media"
	"github.com/tallyhq/tally/internal/notify"
	"github.com/tallyhq/tally/internal/server"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/internal/storage/jsonfile"
	"github.com/tallyhq/tally/internal/storage/sqlite"
	"github.com/tallyhq/tally/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.Env, cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	avatars, err := media.NewLocalStore(cfg.MediaRoot)
	if err != nil {
		return fmt.Errorf("failed to init media store: %w", err)
	}

	users := service.NewUserService(store, notify.NewLogNotifier())
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store, groups)

	srv := server.New(cfg, users, groups, expenses, avatars)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.StorageMode())
	return http.ListenAndServe(addr, srv.Handler())
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.UseFileStorage {
		return jsonfile.New(cfg.UsersFilePath, cfg.GroupsFilePath)
	}
	return sqlite.New(cfg.DBPath)
}
