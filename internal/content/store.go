package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/operlabs/conexao/internal/apperr"
	"github.com/operlabs/conexao/internal/models"
	"github.com/operlabs/conexao/internal/normalize"
)

// DefaultRecent is the number of posts returned when no limit is given.
const DefaultRecent = 3

// SearchOptions narrows a free-text search. Category and Tag are exact
// membership checks applied as additional AND conditions; a positive Limit
// truncates the filtered result last, preserving sort order.
type SearchOptions struct {
	Limit    int
	Category string
	Tag      string
}

// Store answers read queries over the collection. The document is loaded,
// normalized, and sorted at most once per session; concurrent first-time
// callers share a single in-flight load.
type Store struct {
	loader Loader
	now    func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	cached *models.Collection
}

// NewStore creates a Store over the given loader.
func NewStore(loader Loader) *Store {
	return &Store{loader: loader, now: time.Now}
}

// Invalidate discards the cached collection so the next query reloads it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// collection returns the cached collection, loading it on first use.
func (s *Store) collection(ctx context.Context) (*models.Collection, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do("collection", func() (any, error) {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		data, err := s.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrLoadFailure, err)
		}

		col, err := Decode(data, s.now())
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cached = col
		s.mu.Unlock()
		return col, nil
	})
	if err != nil {
		// Nothing was cached, so a later call retries from scratch.
		return nil, err
	}
	return v.(*models.Collection), nil
}

// Decode parses a collection document, normalizes every post, and sorts the
// result by publish date descending. A document that is not an object with a
// posts array is an ErrInvalidFormat; a syntactically broken document is an
// ErrLoadFailure.
func Decode(data []byte, now time.Time) (*models.Collection, error) {
	var doc struct {
		Meta  models.Meta     `json:"meta"`
		Posts json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrLoadFailure, err)
	}

	trimmed := strings.TrimSpace(string(doc.Posts))
	if trimmed == "" || trimmed == "null" || !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: posts must be an array", apperr.ErrInvalidFormat)
	}

	var posts []models.Post
	if err := json.Unmarshal(doc.Posts, &posts); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidFormat, err)
	}

	meta := doc.Meta
	if meta == nil {
		meta = models.Meta{}
	}

	for i := range posts {
		posts[i] = normalize.Post(posts[i], now)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedTime().After(posts[j].PublishedTime())
	})

	return &models.Collection{Meta: meta, Posts: posts}, nil
}

// All returns every post, normalized and sorted by publish date descending.
func (s *Store) All(ctx context.Context) ([]models.Post, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	return col.Posts, nil
}

// Meta returns the collection's pass-through metadata.
func (s *Store) Meta(ctx context.Context) (models.Meta, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	return col.Meta, nil
}

// BySlug finds a post by slug, falling back to id for legacy records.
// A missing post is (nil, nil), not an error.
func (s *Store) BySlug(ctx context.Context, slug string) (*models.Post, error) {
	posts, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			p := posts[i]
			return &p, nil
		}
	}
	for i := range posts {
		if posts[i].ID == slug {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Recent returns the n most recently published posts.
func (s *Store) Recent(ctx context.Context, n int) ([]models.Post, error) {
	posts, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(posts) {
		n = len(posts)
	}
	return posts[:n], nil
}

// Search returns posts matching the query as a case-insensitive substring of
// title, summary, content, tags, or categories, further narrowed by opts.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]models.Post, error) {
	posts, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	var out []models.Post
	for _, p := range posts {
		if needle != "" && !matchesQuery(&p, needle) {
			continue
		}
		if opts.Category != "" && !p.HasCategory(opts.Category) {
			continue
		}
		if opts.Tag != "" && !p.HasTag(opts.Tag) {
			continue
		}
		out = append(out, p)
	}

	// Limit applies to the matching, filtered result, never before filtering.
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func matchesQuery(p *models.Post, needle string) bool {
	fields := []string{
		p.Title,
		p.Summary,
		p.Content,
		strings.Join(p.Tags, " "),
		strings.Join(p.Categories, " "),
	}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
