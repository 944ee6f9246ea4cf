package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles Markdown documents. Formatting is stripped so the
// chunker and embedder see prose, not syntax.
type Parser struct{}

// New creates a new Markdown parser.
func New() *Parser {
	return &Parser{}
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 50 // Higher than the plaintext fallback
}

// Parse splits a markdown file on top-level headings, one segment per
// section, with the heading recorded in the segment metadata.
func (p *Parser) Parse(_ context.Context, name string, data []byte) ([]driven.Segment, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	var segments []driven.Segment
	for _, section := range splitSections(content) {
		text := stripMarkdown(section.body)
		if text == "" {
			continue
		}
		meta := map[string]string{"file": name}
		if section.heading != "" {
			meta["heading"] = section.heading
		}
		segments = append(segments, driven.Segment{Text: text, Metadata: meta})
	}
	return segments, nil
}

type section struct {
	heading string
	body    string
}

var headingLine = regexp.MustCompile(`(?m)^#{1,2}\s+(.+)$`)

// splitSections breaks content on H1/H2 headings. Content before the
// first heading becomes its own untitled section.
func splitSections(content string) []section {
	matches := headingLine.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []section{{body: content}}
	}

	var sections []section
	if lead := content[:matches[0][0]]; strings.TrimSpace(lead) != "" {
		sections = append(sections, section{body: lead})
	}
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, section{
			heading: strings.TrimSpace(content[m[2]:m[3]]),
			body:    content[m[0]:end],
		})
	}
	return sections
}

// stripMarkdown removes common markdown formatting for plain text
// content. A simplified implementation that handles common cases.
func stripMarkdown(content string) string {
	// Remove code fences but keep the code itself.
	fence := regexp.MustCompile("(?m)^```[^\n]*$")
	content = fence.ReplaceAllString(content, "")

	// Remove inline code markers.
	content = strings.ReplaceAll(content, "`", "")

	// Remove images ![alt](url)
	images := regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	content = images.ReplaceAllString(content, "")

	// Convert links [text](url) to just text
	links := regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	content = links.ReplaceAllString(content, "$1")

	// Remove heading markers (# ## ### etc)
	headings := regexp.MustCompile(`(?m)^#{1,6}\s+`)
	content = headings.ReplaceAllString(content, "")

	// Remove bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	// Remove blockquote markers
	blockquote := regexp.MustCompile(`(?m)^>\s*`)
	content = blockquote.ReplaceAllString(content, "")

	// Remove horizontal rules
	hr := regexp.MustCompile(`(?m)^[-_]{3,}\s*$`)
	content = hr.ReplaceAllString(content, "")

	// Remove list markers (- * + and numbered)
	listMarkers := regexp.MustCompile(`(?m)^\s*[-+]\s+`)
	content = listMarkers.ReplaceAllString(content, "")
	numberedList := regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	content = numberedList.ReplaceAllString(content, "")

	// Collapse multiple newlines
	multiNewlines := regexp.MustCompile(`\n{3,}`)
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
