// Package parsers provides implementations of the Parser interface
// for various document formats. Each parser knows how to extract text
// segments from a specific set of MIME types.
//
// Parsers are registered with the Registry at startup.
package parsers
