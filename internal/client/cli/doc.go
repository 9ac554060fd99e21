// Package cli provides the interactive Bloqedex command-line client.
//
// It wires configuration, the local store, the API services, and an
// interactive REPL that works online and offline. Typical flow: restore or
// prompt for a session, start a background connectivity watcher, and execute
// user commands; queued offline changes replay automatically when the server
// comes back.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
