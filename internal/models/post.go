// Package models defines the domain types for the Conexão blog collection.
package models

import (
	"encoding/json"
	"time"
)

// Post status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Criticality levels. They only affect presentation styling.
const (
	CriticalityLow    = "low"
	CriticalityMedium = "medium"
	CriticalityHigh   = "high"
)

// Post is a single blog entry. Timestamps are ISO-8601 strings exactly as
// they appear in the collection document; DisplayDate is derived on load and
// never authoritative.
type Post struct {
	ID                 string          `json:"id"`
	Slug               string          `json:"slug"`
	Title              string          `json:"title"`
	Status             string          `json:"status"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          string          `json:"updatedAt"`
	PublishedAt        string          `json:"publishedAt"`
	ReadingTimeMinutes int             `json:"readingTimeMinutes"`
	Author             string          `json:"author"`
	Criticality        string          `json:"criticality"`
	Tags               []string        `json:"tags"`
	Categories         []string        `json:"categories"`
	Summary            string          `json:"summary"`
	Content            string          `json:"content"`
	HeroImage          HeroImage       `json:"heroImage"`
	SEO                SEO             `json:"seo"`
	FAQ                []FAQEntry      `json:"faq"`
	Legacy             json.RawMessage `json:"legacy,omitempty"`

	DisplayDate string `json:"displayDate,omitempty"`
}

// HeroImage is the optional cover image of a post.
type HeroImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// SEO holds the post's search-engine metadata.
type SEO struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// FAQEntry is one question/answer pair. Entries with an empty question or
// answer are dropped on save.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Meta is the opaque pass-through bag at the top of the collection document.
// The exporter refreshes generatedAt and fills version/locale defaults;
// everything else is preserved verbatim.
type Meta map[string]any

// Collection is the full {meta, posts[]} document.
type Collection struct {
	Meta  Meta   `json:"meta"`
	Posts []Post `json:"posts"`
}

// PublishedTime parses the post's publish instant, falling back to createdAt.
// The zero time is returned when neither parses.
func (p *Post) PublishedTime() time.Time {
	if t, err := time.Parse(time.RFC3339, p.PublishedAt); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		return t
	}
	return time.Time{}
}

// HasCategory reports whether the post carries the exact category.
func (p *Post) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasTag reports whether the post carries the exact tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
