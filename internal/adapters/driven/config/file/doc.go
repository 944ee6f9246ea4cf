// Package file provides file-based driven adapters: the TOML
// application config and the user-editable prompt store.
package file
