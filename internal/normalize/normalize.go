// Package normalize converts raw, possibly incomplete post records into the
// canonical in-memory representation with defaults filled in and derived
// fields recomputed. Normalization never fails: absent or malformed optional
// fields degrade to defaults.
package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/operlabs/conexao/internal/models"
)

const (
	// ExcerptLength is the target length of a derived summary.
	ExcerptLength = 220
	// WordsPerMinute is the reading speed assumed by reading-time estimates.
	WordsPerMinute = 200
	// MaxSlugLength caps generated slugs.
	MaxSlugLength = 120
)

// stripMarks decomposes accented characters and removes the combining marks,
// so "ção" becomes "cao".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ptBRMonths holds the long-form month names used by display dates.
var ptBRMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Post fills every missing field of raw with its documented default and
// recomputes the derived fields (slug, summary, reading time, display date).
// now supplies the instant used when all timestamp sources are absent.
func Post(raw models.Post, now time.Time) models.Post {
	p := raw

	if p.PublishedAt == "" {
		p.PublishedAt = p.CreatedAt
	}
	if p.PublishedAt == "" {
		p.PublishedAt = now.UTC().Format(time.RFC3339)
	}
	if p.CreatedAt == "" {
		p.CreatedAt = p.PublishedAt
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = p.PublishedAt
	}

	if p.Status == "" {
		p.Status = models.StatusPublished
	}
	if p.Criticality == "" {
		p.Criticality = models.CriticalityLow
	}

	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.ID)
	}
	if p.ID == "" {
		p.ID = p.Slug
	}

	if strings.TrimSpace(p.Summary) == "" {
		p.Summary = Excerpt(p.Content, ExcerptLength)
	} else {
		p.Summary = strings.TrimSpace(p.Summary)
	}

	if p.ReadingTimeMinutes < 1 {
		p.ReadingTimeMinutes = EstimateReadingTime(p.Content)
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.FAQ == nil {
		p.FAQ = []models.FAQEntry{}
	}
	if p.SEO.Keywords == nil {
		p.SEO.Keywords = []string{}
	}

	displayTime := p.PublishedTime()
	if displayTime.IsZero() {
		displayTime = now
	}
	p.DisplayDate = DisplayDate(displayTime)

	return p
}

// Slugify derives a URL-safe identifier: decompose accents, strip combining
// marks, lowercase, collapse every run outside [a-z0-9] into a single hyphen,
// trim edge hyphens, and cap the length.
func Slugify(value string) string {
	lowered := strings.ToLower(value)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range stripped {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return slug
}

// Excerpt collapses all whitespace in content to single spaces, trims, and
// truncates with an ellipsis marker when the result exceeds maxLength.
func Excerpt(content string, maxLength int) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return ""
	}
	r := []rune(clean)
	if len(r) <= maxLength {
		return clean
	}
	return strings.TrimSpace(string(r[:maxLength-1])) + "…"
}

// EstimateReadingTime returns max(1, ceil(wordCount/WordsPerMinute)).
func EstimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// DisplayDate formats t the way the public site shows publish dates,
// e.g. "05 de março de 2024".
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), ptBRMonths[t.Month()-1], t.Year())
}
