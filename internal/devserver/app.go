// Package devserver wires the development backend together: SQLite storage,
// migrations, media store, and the HTTP router.
package devserver

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/farmstand/internal/devserver/config"
	"github.com/dmitrijs2005/farmstand/internal/devserver/handler"
	"github.com/dmitrijs2005/farmstand/internal/devserver/media"
	"github.com/dmitrijs2005/farmstand/internal/devserver/migrations"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/products"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"

	_ "modernc.org/sqlite"
)

// InitDatabase opens the devserver database and applies its migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Run starts the devserver and blocks until ctx is canceled or the listener
// fails.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logging.NewDefault(slog.LevelInfo)

	db, err := InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.RouterDeps{
		Products: products.NewSQLiteRepository(db),
		Users:    users.NewSQLiteRepository(db),
		Media:    store,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
		Log:      log,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "devserver listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
