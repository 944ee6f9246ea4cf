package parsers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// extensionMIMETypes maps well-known extensions to MIME types the
// stdlib content sniffer cannot distinguish from plain text.
var extensionMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".csv":      "text/csv",
	".json":     "application/json",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".xml":      "application/xml",
	".html":     "text/html",
	".htm":      "text/html",
}

// Registry maps MIME types to parsers, picking the highest-priority
// parser when several claim a type.
type Registry struct {
	byMIME map[string][]driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string][]driven.Parser),
	}
}

// Register adds a parser for its supported MIME types.
func (r *Registry) Register(parser driven.Parser) {
	for _, mimeType := range parser.SupportedMIMETypes() {
		r.byMIME[mimeType] = append(r.byMIME[mimeType], parser)
	}
}

// Parse detects the file's MIME type and runs the best parser for it.
func (r *Registry) Parse(ctx context.Context, name string, data []byte) ([]driven.Segment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", domain.ErrInvalidInput, name)
	}

	mimeType := detectMIMEType(name, data)
	parser := r.bestFor(mimeType)
	if parser == nil {
		return nil, fmt.Errorf("%w: no parser for MIME type %q (%s)", domain.ErrInvalidInput, mimeType, name)
	}
	return parser.Parse(ctx, name, data)
}

// SupportedMIMETypes returns all MIME types with a registered parser.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for mimeType := range r.byMIME {
		types = append(types, mimeType)
	}
	return types
}

// bestFor returns the highest-priority parser for a MIME type.
func (r *Registry) bestFor(mimeType string) driven.Parser {
	var best driven.Parser
	for _, p := range r.byMIME[mimeType] {
		if best == nil || p.Priority() > best.Priority() {
			best = p
		}
	}
	return best
}

// detectMIMEType resolves a file's MIME type from its extension,
// falling back to content sniffing.
func detectMIMEType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mimeType, ok := extensionMIMETypes[ext]; ok {
		return mimeType
	}

	sniffed := http.DetectContentType(data)
	// Strip parameters like "; charset=utf-8".
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = sniffed[:idx]
	}
	return strings.TrimSpace(sniffed)
}
