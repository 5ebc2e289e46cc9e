// Package stores provides the per-entity stores over the durable key-value
// medium: videos, liked-set, profile, and stories. Each store owns exactly
// one logical key.
//
// Fault contract: storage faults never escape a store method. Read failures
// (missing key, corrupt JSON, medium errors) are logged and replaced with a
// safe default — empty collection, empty set, or a freshly synthesized
// profile. Write failures are logged and swallowed. The UI layer above must
// never crash because the medium misbehaved. The package-level Write*
// helpers are the one exception: they propagate write faults so the facade
// can roll back a multi-key transaction.
//
// Stores are written against kvstore.RW, so the same code serves autocommit
// operations and transactional multi-key updates.
package stores
