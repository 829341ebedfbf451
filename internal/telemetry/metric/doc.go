// Package metric provides Prometheus metrics for the relay.
//
// Operation counters are incremented by the service layer; per-zone
// occupancy gauges are collected on scrape from the storage backend so
// the hot path carries no gauge bookkeeping.
package metric
