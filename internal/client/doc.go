// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the zakat-keeper command line client.
//
// Every command signs in with the user's login and secret, derives the
// master key locally and talks to the server through the client services.
// The migrate command moves a user's legacy server-encrypted fields to
// zero-knowledge storage and can be re-run after an interruption.
package client
