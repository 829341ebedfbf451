// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if err := verifyLimits(&cfg.Limits); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q is not host:port: %w", cfg.HTTP.Addr, err)
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, path := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("TLS file %q: %w", path, err)
		}
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.MaxFailedAttempts < 0 {
		return errors.New("security.max_failed_attempts must not be negative")
	}
	if cfg.LockoutSeconds < 0 {
		return errors.New("security.lockout_seconds must not be negative")
	}
	if cfg.MaxFailedAttempts > 0 && cfg.LockoutSeconds == 0 {
		return errors.New("security.lockout_seconds is required when max_failed_attempts is set")
	}
	if cfg.RateLimitPerSecond < 0 {
		return errors.New("security.rate_limit_per_second must not be negative")
	}
	if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst < 1 {
		return errors.New("security.rate_limit_burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func verifyLimits(cfg *LimitsSection) error {
	if cfg.MaxZones < 1 {
		return errors.New("limits.max_zones must be at least 1")
	}
	return cfg.ZoneLimits().Validate()
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.BlobDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.BlobDir, 0750); err != nil {
		return fmt.Errorf("cannot create blob directory: %w", err)
	}
	if cfg.BlobShards < 1 {
		return errors.New("storage.blob_shards must be at least 1")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
