// Package driving provides interfaces for external actors (primary/
// inbound ports). The CLI and MCP adapters call the core exclusively
// through these interfaces.
package driving
