package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/operlabs/conexao/internal/admin"
	"github.com/operlabs/conexao/internal/content"
	"github.com/operlabs/conexao/internal/sse"
)

// NewRouter creates a chi router with the public read API and, when gate is
// non-nil, the token-gated admin API. sseHandler, if non-nil, is mounted at
// GET /events. siteRoot is where uploaded hero images land.
func NewRouter(store *content.Store, session *admin.Session, gate *admin.Gate, broker *sse.Broker, sseHandler http.Handler, siteRoot string) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()

	// Public reader API.
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/recent", h.RecentPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/search", h.Search)
	r.Get("/meta", h.Meta)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	if gate == nil {
		return r
	}

	ah := NewAdminHandler(session, gate, broker)
	ih := NewImageHandler(siteRoot)

	// Admin: login is open, everything else requires the session token.
	r.Post("/admin/login", ah.Login)
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(gate))

		r.Post("/admin/logout", ah.Logout)
		r.Get("/admin/state", ah.State)
		r.Get("/admin/posts", ah.ListPosts)
		r.Post("/admin/posts", ah.SavePost)
		r.Delete("/admin/posts/{id}", ah.DeletePost)
		r.Post("/admin/import", ah.Import)
		r.Get("/admin/export", ah.Export)
		r.Post("/admin/images", ih.Upload)
	})

	return r
}
