// Package sessionstore provides backends for the session.Store contract.
//
// This package holds the dependency-free backends: File, the production
// default (one JSON file per identifier, atomic rename writes), and Memory
// for development and tests. The Redis and Postgres backends live in
// subpackages so importing a backend only pulls in its own driver:
//
//	sessionstore/redis    go-redis backend, TTL-managed keys
//	sessionstore/postgres pgx backend over a sessions table
//
// All backends implement the identical contract: atomic per-identifier
// overwrites, absent/expired/corrupted reads collapsed to session.ErrNotFound
// with proactive cleanup, idempotent deletes, and an expiry-checked sweep
// that loses races against fresh writes by design.
package sessionstore
