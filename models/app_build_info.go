// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// notAvailable stands in for build values the linker did not set.
const notAvailable = "N/A"

// AppBuildInfo is the server build as stamped in with -ldflags. It is
// immutable once built.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

func (a AppBuildInfo) BuildVersion() string { return a.version }
func (a AppBuildInfo) BuildDate() string    { return a.date }
func (a AppBuildInfo) BuildCommit() string  { return a.commit }

// Response is the /api/version body. Empty values become "N/A".
func (a AppBuildInfo) Response() VersionResponse {
	return VersionResponse{
		Version: valueOrNA(a.version),
		Date:    valueOrNA(a.date),
		Commit:  valueOrNA(a.commit),
	}
}

func valueOrNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
