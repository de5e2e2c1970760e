package api

import (
	"github.com/operlabs/conexao/internal/admin"
	"github.com/operlabs/conexao/internal/models"
)

// PostDetail is the single-post response: the normalized post plus its body
// rendered to HTML.
type PostDetail struct {
	models.Post
	ContentHTML string `json:"contentHtml"`
}

// PostListResponse wraps post listings.
type PostListResponse struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.Post `json:"results"`
	Total   int           `json:"total"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// SavePostRequest is the admin editor submission. ID selects the post being
// edited; an empty ID creates a new post.
type SavePostRequest struct {
	ID string `json:"id"`
	admin.FormData
}

// SessionStateResponse surfaces the editing session's dirty flags so the
// caller can warn before destructive navigation.
type SessionStateResponse struct {
	SelectedID      string `json:"selectedId"`
	FormDirty       bool   `json:"formDirty"`
	CollectionDirty bool   `json:"collectionDirty"`
}

// UploadResponse is returned after a successful image upload.
type UploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
