// Package services contains the application services for the Bloqedex
// client: authentication, the catalog browser, the Pokédex, sharing, the
// sync manager, and the duplicate reconciler.
//
// Every read follows the same shape: try the remote service, mirror the
// response locally, and fall back to the local store when the failure is
// connectivity class. Mutations are applied optimistically to the local
// store and queued for replay when the server cannot be reached.
package services
