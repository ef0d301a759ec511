// Package cli provides the interactive JournalKeeper command-line client.
//
// It wires configuration, storage and the service layer into an interactive
// REPL. Typical flow: register or log in (which derives the encryption key
// from the password), then write and search journal entries.
//
// Key features:
//   - Register / Login / Logout
//   - Add, edit, soft-delete and pin entries
//   - Full-text search over the encrypted word index
//   - Labels, events, settings
//   - Encrypted backup export/import and password change with key rotation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
