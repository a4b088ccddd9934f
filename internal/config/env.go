// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOptions trims every string value, list elements included, so keys
// pasted as "k1, k2" into APP_LEGACY_PREVIOUS_KEYS keep their exact bytes.
var envOptions = env.Options{
	FuncMap: map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(""): func(v string) (any, error) {
			return strings.TrimSpace(v), nil
		},
	},
}

// parseEnv fills cfg from the `env` and `envPrefix` tags of
// [StructuredConfig].
func parseEnv(cfg any) error {
	if err := env.ParseWithOptions(cfg, envOptions); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
