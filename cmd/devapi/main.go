// cmd/devapi/main.go
//
// Development stub of the user REST collaborator.
//
// Start-up
// --------
//
//  1. Load config (conf/.env → conf/userform.yaml → USERFORM_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Pick the store: MySQL through sqlx when devapi.dsn is set, otherwise
//     the in-memory map.
//
//  4. Serve the chi router with hardened timeouts until SIGINT/SIGTERM,
//     then drain for up to ten seconds.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yanizio/adept-userform/internal/config"
	"github.com/yanizio/adept-userform/internal/database"
	"github.com/yanizio/adept-userform/internal/devapi"
	"github.com/yanizio/adept-userform/internal/logger"
	"github.com/yanizio/adept-userform/internal/server"
)

const drainTimeout = 10 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Tee || runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Store ───────────────────────────────────────────────────────
	//
	var store devapi.Store = devapi.NewMemoryStore()
	if dsn := cfg.DevAPI.DSN; dsn != "" {
		logOut.Infow("connecting to database", "dsn", database.Redact(dsn))
		db, err := database.Open(ctx, dsn)
		if err != nil {
			logOut.Fatalw("connect database", "err", err)
		}
		defer db.Close()

		sqlStore := devapi.NewSQLStore(db)
		if err := sqlStore.Migrate(ctx); err != nil {
			logOut.Fatalw("migrate", "err", err)
		}
		store = sqlStore
		logOut.Info("database online")
	} else {
		logOut.Info("using in-memory store")
	}

	//
	// ── 2.  HTTP server ─────────────────────────────────────────────────
	//
	srv := server.New(cfg.DevAPI.ListenAddr,
		devapi.NewRouter(store, logOut, cfg.DevAPI.Prefix),
		logOut.Desugar())

	errCh := make(chan error, 1)
	go func() {
		logOut.Infow("listening", "addr", cfg.DevAPI.ListenAddr, "prefix", cfg.DevAPI.Prefix)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logOut.Fatalw("server error", "err", err)
		}
	case <-ctx.Done():
		logOut.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logOut.Errorw("shutdown", "err", err)
		}
	}
}
