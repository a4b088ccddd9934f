// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command line given to it and blocks until exit.
	Run(ctx context.Context, args []string) error
}

// Connector builds the client services for a resolved configuration. The
// returned close function releases local resources such as the journal.
type Connector func(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*service.ClientServices, func() error, error)

// SecretReader obtains the user's secret. It must not echo the input.
type SecretReader func(prompt string) (string, error)
