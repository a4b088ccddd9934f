// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoServersAreCreated = errors.New("no HTTP address or handlers configured")
	errNoServersToRun      = errors.New("server was not initialised")
)
