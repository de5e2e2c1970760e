package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/operlabs/conexao/internal/content"
	"github.com/operlabs/conexao/internal/render"
)

// Handler holds the public read-side route handlers.
type Handler struct {
	store *content.Store
}

// NewHandler creates a Handler over the content store.
func NewHandler(store *content.Store) *Handler {
	return &Handler{store: store}
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List all posts, sorted by publish date descending
//	@Tags			posts
//	@Produce		json
//	@Success		200	{object}	PostListResponse
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// RecentPosts handles GET /api/posts/recent.
//
//	@Summary		List the most recently published posts
//	@Tags			posts
//	@Produce		json
//	@Param			limit	query		int	false	"Number of posts"
//	@Success		200		{object}	PostListResponse
//	@Router			/posts/recent [get]
func (h *Handler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = content.DefaultRecent
	}
	posts, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /api/posts/{slug}. The slug matches the post's slug
// first and its id second, so legacy records stay addressable.
//
//	@Summary		Get a single post with its body rendered to HTML
//	@Tags			posts
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	PostDetail
//	@Failure		404		{object}	errResponse
//	@Router			/posts/{slug} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.store.BySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, PostDetail{
		Post:        *post,
		ContentHTML: render.Content(post.Content),
	})
}

// Meta handles GET /api/meta: the collection document's pass-through
// metadata (version, locale, generatedAt and anything else the exporter kept).
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Meta(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Search handles GET /api/search.
//
//	@Summary		Search posts by free text with optional category/tag filters
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	false	"Query text"
//	@Param			category	query		string	false	"Exact category filter"
//	@Param			tag			query		string	false	"Exact tag filter"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	SearchResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	results, err := h.store.Search(r.Context(), q.Get("q"), content.SearchOptions{
		Limit:    limit,
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}
