// Package storage defines the capability interface for the zone
// storage engine.
//
// Exactly one concrete implementation is required, the in-memory
// registry in the memory subpackage. The interface is the seam for
// swappable backends; durable backends are deliberately out of scope
// for the core.
package storage
