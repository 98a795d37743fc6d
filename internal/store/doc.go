// Package store defines the persistence ports for the practice engine and
// the read-only catalog contracts it consumes. Implementations live in
// internal/platform/postgres.
package store
