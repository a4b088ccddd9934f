// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated means the server config has no HTTP address.
var errNoHandlersAreCreated = errors.New("no HTTP handlers: server address is empty")
