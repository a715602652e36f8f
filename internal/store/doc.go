// Package store defines the persistence contract for the card collection and
// the settings record. Both are stored as monolithic snapshots: every save
// replaces the previous state wholesale. The package also holds the snapshot
// codec shared by the backends and the transaction helper used by the SQL ones.
package store
