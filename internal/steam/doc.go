// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package steam wraps the Steam Web API and the Store front-end API as lazily
// populated objects. Constructing an App, Achievement or User never touches the
// network; each property is fetched on first read and memoized on the object
// through internal/attrcache. Metadata assumed immutable (app details, the
// achievement schema) is fetched once per object. Volatile data (a user's
// summary, owned games, global unlock rates) is refetched once its TTL lapses.
package steam
