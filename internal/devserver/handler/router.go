package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/farmstand/internal/devserver/media"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/products"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"
)

// RouterDeps carries everything the routes need.
type RouterDeps struct {
	Products products.Repository
	Users    users.Repository
	Media    *media.Store
	Secret   []byte
	TokenTTL time.Duration
	Log      logging.Logger
}

// NewRouter assembles the devserver's full route tree: the product/user REST
// API under /api, the identity subset under /identity, and uploaded media
// under /media.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(deps.Log))
	r.Use(Authenticate(deps.Secret))

	ph := NewProductsHandler(deps.Products, deps.Users, deps.Media, deps.Log)
	uh := NewUsersHandler(deps.Users, deps.Log)
	ih := NewIdentityHandler(deps.Users, deps.Secret, deps.TokenTTL, deps.Log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", ph.List)
			r.Post("/", ph.Create)
			r.Get("/{id}/", ph.Get)
			r.Put("/{id}/", ph.Update)
			r.Delete("/{id}/", ph.Delete)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", uh.Create)
			r.Get("/me/", uh.Me)
			r.Put("/me/", uh.UpdateMe)
			r.Get("/{id}/", uh.Get)
		})
	})

	r.Route("/identity/v1", func(r chi.Router) {
		r.Post("/accounts:signUp", ih.SignUp)
		r.Post("/accounts:signInWithPassword", ih.SignIn)
		r.Post("/accounts:signInWithIdp", ih.SignInWithIdp)
		r.Get("/authorize", ih.Authorize)
		r.Post("/accounts:lookup", ih.Lookup)
		r.Post("/accounts:update", ih.Update)
		r.Post("/token", ih.Token)
	})

	fs := http.StripPrefix("/media/", http.FileServer(http.Dir(deps.Media.Dir())))
	r.Get("/media/*", fs.ServeHTTP)

	return r
}
