// Package config defines the server configuration structure.
package config

// ServerConfig is the root configuration for dropzone-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Security SecuritySection `koanf:"security"`
	Limits   LimitsSection   `koanf:"limits"`
	Storage  StorageSection  `koanf:"storage"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// SecuritySection configures access control.
type SecuritySection struct {
	// AccessToken gates the client operations. Empty disables the
	// check, for development only.
	AccessToken string `koanf:"access_token"`

	// AdminToken gates the administrative operations (reset,
	// shutdown, security info). Empty disables them entirely.
	AdminToken string `koanf:"admin_token"`

	// MaxFailedAttempts is the number of failed authentications
	// within LockoutSeconds that locks a caller address out. Zero
	// disables the lockout.
	MaxFailedAttempts int `koanf:"max_failed_attempts"`

	// LockoutSeconds is the sliding window, in seconds, for both
	// counting failures and holding the lockout.
	LockoutSeconds int `koanf:"lockout_seconds"`

	// RateLimitPerSecond caps requests per caller address. Zero
	// disables rate limiting.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`

	// RateLimitBurst is the per-address burst allowance.
	RateLimitBurst int `koanf:"rate_limit_burst"`
}

// LimitsSection configures zone defaults.
type LimitsSection struct {
	// MaxZones caps the number of zone definitions.
	MaxZones int `koanf:"max_zones"`

	MaxPayloadCount   int64 `koanf:"max_payload_count"`
	MaxPayloadSize    int64 `koanf:"max_payload_size"`
	MaxReferenceCount int64 `koanf:"max_reference_count"`
	MaxReferenceSize  int64 `koanf:"max_reference_size"`
}

// StorageSection configures the optional blob sidecar used for
// payloads too large to keep in memory.
type StorageSection struct {
	// BlobDir enables file-backed blob storage when non-empty.
	BlobDir string `koanf:"blob_dir"`

	// BlobShards is the number of shard directories under BlobDir.
	BlobShards int `koanf:"blob_shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
