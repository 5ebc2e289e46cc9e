// Package kvstore provides the durable key-value medium underneath the
// entity stores: a flat string-key → JSON-document table on SQLite.
//
// Each logical key ("videos", "liked_videos", "profile", "stories") is
// exclusively owned by one entity store; kvstore itself knows nothing about
// entity shapes. Multi-key writes that must commit or fail together go
// through Update, which runs the caller's function inside one SQL
// transaction.
package kvstore
