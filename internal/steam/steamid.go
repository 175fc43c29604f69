// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"net/url"
	"regexp"
	"strings"
)

// steamID64Re matches an individual account id in 64-bit form. Individual
// accounts live in the 7656119... universe.
var steamID64Re = regexp.MustCompile(`^7656119\d{10}$`)

// IsSteamID64 reports whether s looks like a 64-bit individual account id.
func IsSteamID64(s string) bool {
	return steamID64Re.MatchString(s)
}

// ParseUserRef reduces the forms a user may be referred to by to either a
// SteamID64 or a vanity name:
//
//	76561197960287930
//	gabelogannewell
//	https://steamcommunity.com/profiles/76561197960287930/
//	https://steamcommunity.com/id/gabelogannewell
func ParseUserRef(ref string) (id string, vanity string) {
	ref = strings.TrimSpace(ref)

	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 {
			switch parts[0] {
			case "profiles":
				ref = parts[1]
			case "id":
				return "", parts[1]
			}
		}
	}

	if IsSteamID64(ref) {
		return ref, ""
	}
	return "", ref
}
