// Package envelope implements the wire framing used to move payloads
// between a calling application and the relay.
//
// An Envelope carries the payload together with its original length, a
// SHA-256 digest for integrity validation, and an encryption flag.
// The codec runs at the edges: callers encode before drop-off and
// decode after pickup, while the zone store treats the envelope string
// as opaque content.
//
// When encryption is enabled the payload, the length token, and the
// digest are each sealed independently under a key derived from the
// configured password and salt. The length token is a CSV of the form
// "<prefix>,<length>,<suffix>" with random digit padding of varying
// width; this obfuscates the plaintext length against naive
// ciphertext-size inference and is a compatibility quirk of the
// format, not a security boundary. The digest check is the integrity
// guarantee.
package envelope
