package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/operlabs/conexao/internal/admin"
	"github.com/operlabs/conexao/internal/content"
	"github.com/operlabs/conexao/internal/digest"
	"github.com/operlabs/conexao/internal/sse"
	"github.com/operlabs/conexao/internal/testutil"
)

// testEnv builds a router over a temp collection file, a seeded editing
// session, and a token gate for user "admin" / password "segredo".
func testEnv(t *testing.T) (http.Handler, string) {
	t.Helper()

	dataFile := testutil.WriteCollection(t, testutil.SampleDoc)
	siteDir := filepath.Dir(dataFile)

	store := content.NewStore(&content.FileLoader{Path: dataFile})
	session := admin.NewSession()
	if err := session.Import([]byte(testutil.SampleDoc)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	gate := admin.NewGate("admin", digest.SumString("segredo"), admin.SHA256Hasher{}, admin.NewMemorySessionStore())
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)

	return NewRouter(store, session, gate, broker, broker, siteDir), siteDir
}

// login authenticates against the router and returns the bearer token.
func login(t *testing.T, router http.Handler) string {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "segredo"})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestListPostsSortedByPublishDate(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Posts[0].Slug != "falha-em-motores" {
		t.Errorf("first slug = %q, want newest first", resp.Posts[0].Slug)
	}
}

func TestGetPostRendersContent(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/posts/falha-em-motores", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail PostDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Title != "Falha em Motores a Diesel" {
		t.Errorf("title = %q", detail.Title)
	}
	if !strings.Contains(detail.ContentHTML, "<h2>Diagnóstico</h2>") {
		t.Errorf("contentHtml = %q, want rendered heading", detail.ContentHTML)
	}
}

func TestGetPostNotFound(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/posts/nao-existe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSearchWithCategoryFilter(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=motor&category=Mec%C3%A2nica", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Results[0].Slug != "falha-em-motores" {
		t.Errorf("results = %+v, want only falha-em-motores", resp.Results)
	}
}

func TestRecentPostsLimit(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/posts/recent?limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Posts[0].Slug != "falha-em-motores" {
		t.Errorf("posts = %+v, want the newest post only", resp.Posts)
	}
}

func TestMetaPassthrough(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/meta", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var meta map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &meta)
	if meta["locale"] != "pt-BR" {
		t.Errorf("locale = %v, want pt-BR", meta["locale"])
	}
}

func TestAdminRequiresToken(t *testing.T) {
	router, _ := testEnv(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/posts"},
		{http.MethodPost, "/admin/posts"},
		{http.MethodGet, "/admin/export"},
		{http.MethodGet, "/admin/state"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := testEnv(t)

	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "errada"})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestSaveCreatesPost(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	body, _ := json.Marshal(map[string]string{
		"title":   "Nova Matéria sobre Freios",
		"content": "Verifique as pastilhas.",
	})
	req := authed(httptest.NewRequest(http.MethodPost, "/admin/posts", bytes.NewReader(body)), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}

	var saved struct {
		Slug    string `json:"slug"`
		Summary string `json:"summary"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &saved)
	if saved.Slug != "nova-materia-sobre-freios" {
		t.Errorf("slug = %q", saved.Slug)
	}
	if saved.Summary != "Verifique as pastilhas." {
		t.Errorf("summary = %q", saved.Summary)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/admin/posts", nil), token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("admin total = %d, want 3", resp.Total)
	}
}

func TestSaveMissingTitle(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	body, _ := json.Marshal(map[string]string{"content": "sem título"})
	req := authed(httptest.NewRequest(http.MethodPost, "/admin/posts", bytes.NewReader(body)), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestDeletePost(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	req := authed(httptest.NewRequest(http.MethodDelete, "/admin/posts/manutencao-preventiva", nil), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	// Deleting again is still a 204; the session treats it as a no-op.
	req = authed(httptest.NewRequest(http.MethodDelete, "/admin/posts/manutencao-preventiva", nil), token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d", w.Code)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/admin/posts", nil), token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("total after delete = %d, want 1", resp.Total)
	}
}

func TestImportExport(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	req := authed(httptest.NewRequest(http.MethodGet, "/admin/export", nil), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "blog-posts.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := w.Body.Bytes()

	req = authed(httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader(exported)), token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestImportRejectsBadShape(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	req := authed(httptest.NewRequest(http.MethodPost, "/admin/import", strings.NewReader(`{"posts": "not-an-array"}`)), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	req := authed(httptest.NewRequest(http.MethodPost, "/admin/logout", nil), token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/admin/posts", nil), token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", w.Code)
	}
}

func TestImageUpload(t *testing.T) {
	router, siteDir := testEnv(t)
	token := login(t, router)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "capa.png")
	_, _ = part.Write([]byte("png-bytes"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/admin/images", &buf), token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.URL != "/images/capa.png" {
		t.Errorf("url = %q", resp.URL)
	}
	if _, err := os.Stat(filepath.Join(siteDir, "images", "capa.png")); err != nil {
		t.Errorf("uploaded file missing: %v", err)
	}
}

func TestImageUploadRejectsUnsupportedType(t *testing.T) {
	router, _ := testEnv(t)
	token := login(t, router)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "script.exe")
	_, _ = part.Write([]byte("x"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/admin/images", &buf), token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSafeNameRejectsTraversal(t *testing.T) {
	h := NewImageHandler(t.TempDir())

	for _, name := range []string{"", "../escape.png", "a/b.png", "..", "nested\\..\\x.png"} {
		if _, err := h.safeName(name); err == nil {
			t.Errorf("safeName(%q) accepted, want error", name)
		}
	}
	if _, err := h.safeName("capa.png"); err != nil {
		t.Errorf("safeName(capa.png) = %v", err)
	}
}
