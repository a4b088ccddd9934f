// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks the merged server config before startup. Key material is
// only checked for presence here; the keyring parses it.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.PasswordHashKey == "" || cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: password hash key and token sign key are required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token issuer and positive token duration are required", ErrInvalidAppConfigs)
	}
	if strings.TrimSpace(cfg.App.LegacyKey) == "" {
		return fmt.Errorf("%w: legacy key is required", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Limiter.RedisAddress != "" && (cfg.Limiter.Requests <= 0 || cfg.Limiter.Window <= 0) {
		return ErrInvalidLimiterConfigs
	}

	if cfg.Workers.StatsInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// Validate checks the client config. The CLI calls it again after applying
// its flags.
func (cfg *ClientConfig) Validate() error {
	if cfg.JournalPath == "" || strings.Contains(cfg.JournalPath, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.ServerAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
