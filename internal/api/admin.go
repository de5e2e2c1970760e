package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/operlabs/conexao/internal/admin"
	"github.com/operlabs/conexao/internal/sse"
)

// maxImportBytes caps the size of an imported collection document.
const maxImportBytes = 10 << 20

// AdminHandler holds the editing-session route handlers.
type AdminHandler struct {
	session *admin.Session
	gate    *admin.Gate
	broker  *sse.Broker
}

// NewAdminHandler creates the admin handlers.
func NewAdminHandler(session *admin.Session, gate *admin.Gate, broker *sse.Broker) *AdminHandler {
	return &AdminHandler{session: session, gate: gate, broker: broker}
}

// Login handles POST /api/admin/login.
//
//	@Summary		Authenticate and receive a session token
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	errResponse
//	@Router			/admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	token, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /api/admin/logout.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(sessionToken(r))
	w.WriteHeader(http.StatusNoContent)
}

// ListPosts handles GET /api/admin/posts: the working collection, including
// drafts.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, _ *http.Request) {
	posts := h.session.Posts()
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// SavePost handles POST /api/admin/posts. An empty id creates a post; a
// matching id merges into the existing record and re-keys it to the
// resulting slug.
func (h *AdminHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	var req SavePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	h.session.Select(req.ID)
	post, err := h.session.Save(req.FormData)
	if err != nil {
		writeError(w, err)
		return
	}
	h.broker.PublishPostEvent(sse.EventPostSaved, post.Slug)
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/admin/posts/{id}. The client confirms the
// action; a missing id is a silent no-op, so the response is 204 either way.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.session.Delete(id)
	h.broker.PublishPostEvent(sse.EventPostDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/admin/import: wholesale replacement of the
// working collection with the request body.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.session.Import(data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/admin/export: the canonical collection document as
// a download. The human places this file back into the serving location.
func (h *AdminHandler) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := h.session.Export()
	if err != nil {
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="blog-posts.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// State handles GET /api/admin/state: the session's dirty flags and current
// selection.
func (h *AdminHandler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SessionStateResponse{
		SelectedID:      h.session.SelectedID(),
		FormDirty:       h.session.FormDirty(),
		CollectionDirty: h.session.CollectionDirty(),
	})
}
