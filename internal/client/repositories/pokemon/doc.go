// Package pokemon persists catalog entries in the local SQLite store.
//
// Catalog data is immutable reference data: entries are created by fetch or
// bulk seed, overwritten idempotently on re-fetch, and never deleted. The
// repository keeps an in-memory set of external identifiers to make
// membership and range checks over large catalogs cheap; the set is
// invalidated additively on every write (no removal path exists).
package pokemon
