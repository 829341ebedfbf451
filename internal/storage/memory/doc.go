// Package memory provides the in-memory zone storage engine.
//
// A Registry owns the bounded set of zones and creates them lazily on
// first reference. Each zone guards its own queues, references, and
// counters with a single mutex, so operations on different zones never
// contend. Expiry is enforced lazily at read time; there is no
// background sweeper racing with request handlers.
package memory
