// Package render converts the raw post body into HTML. The dialect is a
// minimal line-oriented subset: headings, ordered/unordered lists, bold,
// italic, and links. All user text is HTML-escaped before any inline markup
// substitution, so markup delimiters in user text cannot inject tags.
package render

import (
	"html"
	"regexp"
	"strings"
)

// Placeholder is emitted for posts whose body is still empty.
const Placeholder = "<p>Conteúdo em construção.</p>"

var (
	unorderedRe = regexp.MustCompile(`^[-*]\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	headingRe   = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)

	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)
	labelRe  = regexp.MustCompile(`\[([^\]]+)\]`)
)

// list accumulation states.
const (
	listNone = ""
	listUL   = "ul"
	listOL   = "ol"
)

// Content renders raw post text into HTML. It never fails: any input string,
// however malformed, produces some HTML output.
func Content(raw string) string {
	if raw == "" {
		return Placeholder
	}

	var blocks []string
	var items []string
	listType := listNone

	flush := func() {
		if len(items) == 0 {
			return
		}
		var b strings.Builder
		b.WriteString("<" + listType + ">")
		for _, item := range items {
			b.WriteString("<li>" + Inline(item) + "</li>")
		}
		b.WriteString("</" + listType + ">")
		blocks = append(blocks, b.String())
		items = nil
		listType = listNone
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))

		if line == "" {
			flush()
			continue
		}

		if m := unorderedRe.FindStringSubmatch(line); m != nil {
			if listType != listUL {
				flush()
				listType = listUL
			}
			items = append(items, m[1])
			continue
		}

		if m := orderedRe.FindStringSubmatch(line); m != nil {
			if listType != listOL {
				flush()
				listType = listOL
			}
			items = append(items, m[1])
			continue
		}

		flush()

		if m := headingRe.FindStringSubmatch(line); m != nil {
			// Level 1 is reserved for the page title, so "#" maps to <h2>.
			level := len(m[1]) + 1
			tag := "h" + string(rune('0'+level))
			blocks = append(blocks, "<"+tag+">"+Inline(m[2])+"</"+tag+">")
			continue
		}

		blocks = append(blocks, "<p>"+Inline(line)+"</p>")
	}

	flush()

	if len(blocks) == 0 {
		return Placeholder
	}
	return strings.Join(blocks, "\n")
}

// Inline escapes text and applies the inline markup substitutions: bold,
// italic, external links, and the bare [label] fallback for partially
// written link syntax.
func Inline(text string) string {
	out := html.EscapeString(text)

	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = linkRe.ReplaceAllString(out, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
	out = labelRe.ReplaceAllString(out, "<strong>$1</strong>")

	return out
}
