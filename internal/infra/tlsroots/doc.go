// Package tlsroots provides TLS certificate handling for the relay.
//
// Pool assembles the trusted root set (system roots plus any custom
// CA certificates) and is used by dropzone-cli to verify servers
// behind private CAs. Watcher serves the server's certificate through
// tls.Config.GetCertificate and hot-reloads it via fsnotify when the
// files change, so certificate rotation needs no restart.
package tlsroots
