// Package postgres provides PostgreSQL implementations of the store
// interfaces, including the read-only catalog contracts. Uniqueness
// invariants (one active session per user and lesson, one response per
// attempt and item, contiguous attempt numbers) are enforced by database
// constraints and translated here into store-level errors.
package postgres
