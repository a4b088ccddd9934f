package config

import (
	"fmt"
	"time"
)

// ClientConfig is the client's view of [StructuredConfig].
type ClientConfig struct {
	// ServerAddress is the server base URL.
	ServerAddress string
	// RequestTimeout bounds one outbound request.
	RequestTimeout time.Duration
	// JournalPath is the local SQLite migration journal.
	JournalPath string
}

// GetClientConfig builds the client configuration from the environment,
// the optional JSON file at jsonPath and defaults. The CLI applies its own
// flags on top.
func GetClientConfig(jsonPath string) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSONFile(jsonPath).
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		ServerAddress:  cfg.Adapter.HTTPAddress,
		RequestTimeout: cfg.Adapter.RequestTimeout,
		JournalPath:    cfg.Storage.Journal.Path,
	}

	return clientCfg, clientCfg.Validate()
}
