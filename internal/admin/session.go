// Package admin implements the editing session over a locally held post
// collection: create, update, delete, slug uniqueness, import and export.
// The session is mutated only by the single caller driving the editor UI, so
// no internal locking is required.
package admin

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/operlabs/conexao/internal/apperr"
	"github.com/operlabs/conexao/internal/models"
	"github.com/operlabs/conexao/internal/normalize"
)

const (
	// FallbackSlug is used when slugification yields an empty result.
	FallbackSlug = "nova-materia"
	// DefaultAuthor is filled in on export when a post has no author.
	DefaultAuthor = "Equipe OPER"
	// summaryLength is the target length of summaries derived on save.
	summaryLength = 250
)

// FormData is a submitted editor form.
type FormData struct {
	Title              string            `json:"title"`
	Slug               string            `json:"slug"`
	Status             string            `json:"status"`
	Criticality        string            `json:"criticality"`
	PublishedAt        string            `json:"publishedAt"`
	ReadingTimeMinutes int               `json:"readingTimeMinutes"`
	Summary            string            `json:"summary"`
	Content            string            `json:"content"`
	Tags               []string          `json:"tags"`
	Categories         []string          `json:"categories"`
	HeroImage          models.HeroImage  `json:"heroImage"`
	SEO                models.SEO        `json:"seo"`
	FAQ                []models.FAQEntry `json:"faq"`
}

// Validate checks the required editor fields.
func (f FormData) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("informe o título")),
		validation.Field(&f.Content, validation.Required.Error("o conteúdo não pode ficar vazio")),
	)
}

// Session is the mutable working collection behind the admin editor. It is
// independent of the read-side cache.
type Session struct {
	meta  models.Meta
	posts []models.Post

	selectedID string
	formDirty  bool
	dataDirty  bool

	now func() time.Time
}

// NewSession creates a session over a blank collection.
func NewSession() *Session {
	return &Session{meta: models.Meta{}, now: time.Now}
}

// Posts returns the working collection's posts.
func (s *Session) Posts() []models.Post {
	return s.posts
}

// Meta returns the working collection's pass-through metadata.
func (s *Session) Meta() models.Meta {
	return s.meta
}

// Find returns the post with the given id or slug, or nil.
func (s *Session) Find(id string) *models.Post {
	for i := range s.posts {
		if s.posts[i].ID == id || s.posts[i].Slug == id {
			return &s.posts[i]
		}
	}
	return nil
}

// Select marks a post as the one open in the editor.
func (s *Session) Select(id string) {
	s.selectedID = id
	s.formDirty = false
}

// SelectedID returns the identifier of the post open in the editor.
func (s *Session) SelectedID() string {
	return s.selectedID
}

// MarkFormDirty records unsaved edits in the open form.
func (s *Session) MarkFormDirty() {
	s.formDirty = true
}

// FormDirty reports unsaved edits in the open form.
func (s *Session) FormDirty() bool {
	return s.formDirty
}

// CollectionDirty reports changes to the collection since the last export.
func (s *Session) CollectionDirty() bool {
	return s.dataDirty
}

// Save validates and applies the form to the working collection. When the
// selected id matches an existing post it is merged and its identifier
// re-keyed to the resulting slug; otherwise a new post is created.
func (s *Session) Save(form FormData) (models.Post, error) {
	if err := form.Validate(); err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	base := normalize.Slugify(form.Slug)
	if base == "" {
		base = normalize.Slugify(form.Title)
	}
	if base == "" {
		base = FallbackSlug
	}
	slug := s.uniqueSlug(base, s.selectedID)

	// Auto-suffixing applies only to the post being saved; if the resolved
	// identifier still belongs to a different post, reject instead of
	// renaming it.
	for i := range s.posts {
		if s.posts[i].ID == s.selectedID {
			continue
		}
		if s.posts[i].Slug == slug || s.posts[i].ID == slug {
			return models.Post{}, fmt.Errorf("%w: %q", apperr.ErrSlugConflict, slug)
		}
	}

	nowISO := s.now().UTC().Format(time.RFC3339)

	content := strings.TrimSpace(form.Content)
	summary := strings.TrimSpace(form.Summary)
	if summary == "" {
		summary = normalize.Excerpt(content, summaryLength)
	}
	readingTime := form.ReadingTimeMinutes
	if readingTime < 1 {
		readingTime = normalize.EstimateReadingTime(content)
	}
	publishedAt := form.PublishedAt
	if publishedAt == "" {
		publishedAt = nowISO
	}
	status := form.Status
	if status == "" {
		status = models.StatusPublished
	}
	criticality := form.Criticality
	if criticality == "" {
		criticality = models.CriticalityLow
	}

	draft := models.Post{
		ID:                 slug,
		Slug:               slug,
		Title:              strings.TrimSpace(form.Title),
		Status:             status,
		Criticality:        criticality,
		PublishedAt:        publishedAt,
		ReadingTimeMinutes: readingTime,
		Summary:            summary,
		Content:            content,
		Tags:               cleanList(form.Tags),
		Categories:         cleanList(form.Categories),
		HeroImage: models.HeroImage{
			Src: strings.TrimSpace(form.HeroImage.Src),
			Alt: strings.TrimSpace(form.HeroImage.Alt),
		},
		SEO: models.SEO{
			Description: strings.TrimSpace(form.SEO.Description),
			Keywords:    cleanList(form.SEO.Keywords),
		},
		FAQ: cleanFAQ(form.FAQ),
	}

	if idx := s.indexOf(s.selectedID); idx >= 0 {
		existing := s.posts[idx]
		draft.CreatedAt = existing.CreatedAt
		draft.UpdatedAt = nowISO
		draft.Author = existing.Author
		draft.Legacy = existing.Legacy
		s.posts[idx] = draft
	} else {
		draft.CreatedAt = nowISO
		draft.UpdatedAt = nowISO
		s.posts = append(s.posts, draft)
	}

	s.selectedID = draft.ID
	s.dataDirty = true
	s.formDirty = false
	return draft, nil
}

// Delete removes the post with the given id. A missing id is a silent no-op;
// the caller is responsible for confirming the action beforehand.
func (s *Session) Delete(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.dataDirty = true
	s.formDirty = false
}

// Import replaces the whole working collection with the given document.
// Every post is renormalized, duplicate slugs get the same uniqueness pass
// used on save, and selection state resets.
func (s *Session) Import(data []byte) error {
	var doc struct {
		Meta  models.Meta     `json:"meta"`
		Posts json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrImportFormat, err)
	}
	trimmed := strings.TrimSpace(string(doc.Posts))
	if trimmed == "" || trimmed == "null" || !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("%w: posts must be an array", apperr.ErrImportFormat)
	}
	var posts []models.Post
	if err := json.Unmarshal(doc.Posts, &posts); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrImportFormat, err)
	}

	now := s.now()
	for i := range posts {
		posts[i] = normalize.Post(posts[i], now)
		if posts[i].Slug == "" && posts[i].ID == "" {
			// Records with no usable identifier at all get a random one.
			posts[i].ID = uuid.NewString()
			posts[i].Slug = posts[i].ID
		}
	}

	s.meta = doc.Meta
	if s.meta == nil {
		s.meta = models.Meta{}
	}
	s.posts = posts
	s.dedupeSlugs()

	s.selectedID = ""
	s.formDirty = false
	s.dataDirty = false
	return nil
}

// Export serializes the working collection back to the canonical document
// shape, refreshing meta.generatedAt, and marks the collection clean.
func (s *Session) Export() ([]byte, error) {
	if len(s.posts) == 0 {
		return nil, fmt.Errorf("admin: nothing to export")
	}

	meta := models.Meta{}
	for k, v := range s.meta {
		meta[k] = v
	}
	if _, ok := meta["version"]; !ok {
		meta["version"] = 1
	}
	if _, ok := meta["locale"]; !ok {
		meta["locale"] = "pt-BR"
	}
	meta["generatedAt"] = s.now().UTC().Format(time.RFC3339)

	out := make([]exportPost, len(s.posts))
	for i, p := range s.posts {
		out[i] = sanitizeForExport(p)
	}

	data, err := json.MarshalIndent(map[string]any{
		"meta":  meta,
		"posts": out,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("admin: export: %w", err)
	}

	s.dataDirty = false
	return data, nil
}

// exportPost is the canonical on-disk post shape. Derived display fields are
// deliberately absent: they are recomputed on every load.
type exportPost struct {
	ID                 string            `json:"id"`
	Slug               string            `json:"slug"`
	Title              string            `json:"title"`
	Status             string            `json:"status"`
	CreatedAt          string            `json:"createdAt"`
	UpdatedAt          string            `json:"updatedAt"`
	PublishedAt        string            `json:"publishedAt"`
	ReadingTimeMinutes int               `json:"readingTimeMinutes"`
	Author             string            `json:"author"`
	Criticality        string            `json:"criticality"`
	Tags               []string          `json:"tags"`
	Categories         []string          `json:"categories"`
	Summary            string            `json:"summary"`
	Content            string            `json:"content"`
	HeroImage          models.HeroImage  `json:"heroImage"`
	SEO                models.SEO        `json:"seo"`
	FAQ                []models.FAQEntry `json:"faq"`
	Legacy             json.RawMessage   `json:"legacy"`
}

func sanitizeForExport(p models.Post) exportPost {
	author := p.Author
	if author == "" {
		author = DefaultAuthor
	}
	return exportPost{
		ID:                 p.ID,
		Slug:               p.Slug,
		Title:              p.Title,
		Status:             p.Status,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		PublishedAt:        p.PublishedAt,
		ReadingTimeMinutes: p.ReadingTimeMinutes,
		Author:             author,
		Criticality:        p.Criticality,
		Tags:               p.Tags,
		Categories:         p.Categories,
		Summary:            p.Summary,
		Content:            p.Content,
		HeroImage:          p.HeroImage,
		SEO:                p.SEO,
		FAQ:                p.FAQ,
		Legacy:             p.Legacy,
	}
}

// uniqueSlug appends -2, -3, ... to base until no other post (excluding
// ignoreID) holds the candidate as slug or id.
func (s *Session) uniqueSlug(base, ignoreID string) string {
	slug := base
	for suffix := 2; s.identifierTaken(slug, ignoreID); suffix++ {
		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
	return slug
}

func (s *Session) identifierTaken(slug, ignoreID string) bool {
	for i := range s.posts {
		if s.posts[i].ID == ignoreID {
			continue
		}
		if s.posts[i].Slug == slug || s.posts[i].ID == slug {
			return true
		}
	}
	return false
}

// dedupeSlugs applies the save-time uniqueness pass to an imported
// collection: the first holder of a slug keeps it, later duplicates are
// suffixed.
func (s *Session) dedupeSlugs() {
	seen := make(map[string]struct{}, len(s.posts))
	for i := range s.posts {
		slug := s.posts[i].Slug
		if _, dup := seen[slug]; dup {
			base := slug
			for suffix := 2; ; suffix++ {
				candidate := fmt.Sprintf("%s-%d", base, suffix)
				if _, taken := seen[candidate]; !taken && !s.identifierTaken(candidate, s.posts[i].ID) {
					slug = candidate
					break
				}
			}
			s.posts[i].Slug = slug
			s.posts[i].ID = slug
		}
		seen[slug] = struct{}{}
	}
}

func (s *Session) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cleanFAQ(entries []models.FAQEntry) []models.FAQEntry {
	out := make([]models.FAQEntry, 0, len(entries))
	for _, e := range entries {
		q := strings.TrimSpace(e.Question)
		a := strings.TrimSpace(e.Answer)
		if q == "" || a == "" {
			continue
		}
		out = append(out, models.FAQEntry{Question: q, Answer: a})
	}
	return out
}
