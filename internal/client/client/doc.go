// Package client talks to the remote Bloqedex API and bootstraps the local
// database. The Client interface is the single seam between the
// network-aware services and the wire; tests substitute fakes for it.
package client
