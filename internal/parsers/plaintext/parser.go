package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/html",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 5 // Fallback parser
}

// Parse returns the file content as a single segment, normalising
// line endings.
func (p *Parser) Parse(_ context.Context, name string, data []byte) ([]driven.Segment, error) {
	if !utf8.Valid(data) {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	return []driven.Segment{{
		Text:     text,
		Metadata: map[string]string{"file": name},
	}}, nil
}
