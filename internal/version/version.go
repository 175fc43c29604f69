// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version holds build information stamped in by the linker:
//
//	go build -ldflags "-X github.com/staranto/steamctlgo/internal/version.Version=v0.3.0"
package version

var Version = "dev"
