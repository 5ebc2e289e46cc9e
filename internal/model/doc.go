// Package model provides the entity records persisted by reelvault.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal.
//
// JSON tags use the camelCase keys of the legacy browser storage format so
// that a database seeded from an exported localStorage dump round-trips
// unchanged. Timestamps are Unix milliseconds (int64) for the same reason.
package model
