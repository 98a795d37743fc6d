// Package domain defines the core business entities and errors for the
// practice engine: sessions, attempts, graded responses, and the catalog
// ground-truth contract.
package domain
