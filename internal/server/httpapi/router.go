package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/verkhov/picvault/internal/logging"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	Logger    logging.Logger
	JWTSecret []byte

	Users    UserService
	Pictures PictureService
	Store    AssetStore
	Cleaner  AssetCleaner
}

// NewRouter wires the full REST surface. The /pictures subtree sits behind
// the auth gate; /auth and the index route do not.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	authHandler := NewAuthHandler(deps.Users, deps.Logger)
	pictureHandler := NewPictureHandler(deps.Pictures, deps.Store, deps.Cleaner, deps.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Status: http.StatusOK, Message: "It works"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(deps.JWTSecret))

		r.Route("/pictures", func(r chi.Router) {
			r.Get("/", pictureHandler.List)
			r.Post("/", pictureHandler.Store)
			r.Post("/upload", pictureHandler.Upload)
			r.Get("/{id}", pictureHandler.Detail)
			r.Put("/{id}", pictureHandler.Update)
			r.Delete("/{id}", pictureHandler.Delete)
		})
	})

	return r
}
