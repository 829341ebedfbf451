// Package domain defines the core domain model for the relay: zones,
// envelope entries, quota admission, access-watch records, and the
// structured error catalog.
//
// Domain types are pure value objects without IO dependencies or
// framework coupling. Synchronization is the responsibility of the
// storage and service layers.
package domain
