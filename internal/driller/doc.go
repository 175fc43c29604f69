// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package driller digs values out of JSON records by dotted path, the way the
// --attrs, --filter and --sort flags address them.
package driller
