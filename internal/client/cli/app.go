// Package cli implements the interactive storefront client: a REPL whose
// commands correspond to the application's views (home, shop, my products,
// product detail, profile, auth).
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/farmstand/internal/client/api"
	"github.com/dmitrijs2005/farmstand/internal/client/catalog"
	"github.com/dmitrijs2005/farmstand/internal/client/config"
	"github.com/dmitrijs2005/farmstand/internal/client/migrations"
	"github.com/dmitrijs2005/farmstand/internal/client/repositories/localdata"
	"github.com/dmitrijs2005/farmstand/internal/client/session"
	"github.com/dmitrijs2005/farmstand/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// productForm is the create-product modal state. It survives a failed submit
// so the user's entered values stay intact.
type productForm struct {
	Name        string
	Price       string
	Description string
	Image       string // data URL or file path, may be empty
}

// sessionProvider is the slice of session.Provider the views depend on.
// Tests substitute a stub.
type sessionProvider interface {
	Current() *session.Session
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignInWithProvider(ctx context.Context, providerID, code string) error
	AuthorizeURL(providerID string) string
	SignOut()
	UpdateProfile(ctx context.Context, displayName, photoURL string) error
	Subscribe(fn func(*session.Session)) func()
}

type App struct {
	config  *config.Config
	log     logging.Logger
	session sessionProvider
	api     api.Client
	store   localdata.Repository
	db      *sql.DB

	catalog     *catalog.Repository // management view collection
	shopCatalog *catalog.Repository // public browse collection
	reader      *bufio.Reader
	draft       *productForm

	unsubscribe func()
}

// InitDatabase opens the local key/value store and applies its migrations.
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

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault(slog.LevelWarn)

	db, err := InitDatabase(ctx, cfg.LocalDBPath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "err", err)
		return nil, err
	}

	provider := session.NewProvider(cfg.IdentityEndpoint, cfg.IdentityAPIKey, cfg.HTTPTimeout, log)
	apiClient := api.NewRESTClient(cfg.APIBaseURL, provider, cfg.HTTPTimeout)

	a := &App{
		config:      cfg,
		log:         log,
		session:     provider,
		api:         apiClient,
		store:       localdata.NewSQLiteRepository(db),
		db:          db,
		catalog:     catalog.NewRepository(apiClient),
		shopCatalog: catalog.NewRepository(apiClient),
		reader:      bufio.NewReader(os.Stdin),
	}

	// The explicit subscription keeps session state out of ambient globals:
	// the app observes sign-in/sign-out like any other dependent would.
	a.unsubscribe = provider.Subscribe(func(s *session.Session) {
		if s == nil {
			a.draft = nil
		}
	})

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the local database and the session subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}
