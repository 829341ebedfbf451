// Package config defines the server configuration structure.
package config

import "github.com/rambotech/dropzone-go/internal/core/domain"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:5090"
	DefaultHTTPSAddr = "127.0.0.1:5493"

	DefaultMaxZones = 10

	DefaultBlobShards = 16

	DefaultRateLimitPerSecond = 50.0
	DefaultRateLimitBurst     = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	limits := domain.DefaultLimits()
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Security: SecuritySection{
			MaxFailedAttempts:  domain.DefaultMaxFailures,
			LockoutSeconds:     domain.DefaultLockoutSeconds,
			RateLimitPerSecond: DefaultRateLimitPerSecond,
			RateLimitBurst:     DefaultRateLimitBurst,
		},
		Limits: LimitsSection{
			MaxZones:          DefaultMaxZones,
			MaxPayloadCount:   limits.MaxPayloadCount,
			MaxPayloadSize:    limits.MaxPayloadSize,
			MaxReferenceCount: limits.MaxReferenceCount,
			MaxReferenceSize:  limits.MaxReferenceSize,
		},
		Storage: StorageSection{
			BlobShards: DefaultBlobShards,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// ZoneLimits converts the limits section to the domain form.
func (s LimitsSection) ZoneLimits() domain.Limits {
	return domain.Limits{
		MaxPayloadCount:   s.MaxPayloadCount,
		MaxPayloadSize:    s.MaxPayloadSize,
		MaxReferenceCount: s.MaxReferenceCount,
		MaxReferenceSize:  s.MaxReferenceSize,
	}
}
