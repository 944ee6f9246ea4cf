package driven

import "context"

// Segment is one parsed piece of a document in reading order, together
// with any parser-supplied metadata (page number, heading).
type Segment struct {
	// Text is the extracted text.
	Text string

	// Metadata carries parser-specific details.
	Metadata map[string]string
}

// Parser extracts ordered text segments from raw file bytes.
// Each parser handles specific MIME types; parsing internals (PDF
// decoding etc.) stay behind this interface.
type Parser interface {
	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred)
	// when several parsers claim a MIME type.
	Priority() int

	// Parse extracts the ordered segments of the file.
	Parse(ctx context.Context, name string, data []byte) ([]Segment, error)
}

// ParserRegistry selects a parser for a file and runs it.
type ParserRegistry interface {
	// Parse picks the highest-priority parser for the file's MIME
	// type (detected from name and content) and runs it.
	Parse(ctx context.Context, name string, data []byte) ([]Segment, error)
}
