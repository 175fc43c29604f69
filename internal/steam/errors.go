// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors. Callers detect them with errors.Is.
var (
	ErrNoAPIKey       = errors.New("no Steam Web API key configured")
	ErrAppNotFound    = errors.New("app not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrPrivateProfile = errors.New("profile or game details are not public")
	ErrMalformed      = errors.New("malformed response")
)

// APIError is a non-2xx response from either API. URL never carries the key.
type APIError struct {
	Status  int
	URL     string
	Message string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is maps authorization failures on per-user endpoints to ErrPrivateProfile.
// A bad key also yields 403, so ErrorContext in Friendly spells out both causes.
func (e *APIError) Is(target error) bool {
	if target == ErrPrivateProfile {
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// ErrorContext describes what was being attempted when an error surfaced.
type ErrorContext struct {
	Operation string
	Resource  string
	ID        string
}

// Friendly wraps err with a message aimed at a CLI user. The cause stays
// reachable through errors.Is/As.
func Friendly(err error, ctx ErrorContext) error {
	if err == nil {
		return nil
	}

	subject := strings.TrimSpace(ctx.Resource + " " + ctx.ID)
	var hint string
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		hint = "set --key, STEAMCTL_KEY or 'key' in steamctl.yaml"
	case errors.Is(err, ErrAppNotFound), errors.Is(err, ErrUserNotFound):
		hint = "check the id"
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests:
		hint = "rate limited by Steam, try again later"
	case errors.Is(err, ErrPrivateProfile):
		hint = "the profile may be private or the key invalid"
	}

	if hint != "" {
		return fmt.Errorf("failed to %s for %s (%s): %w", ctx.Operation, subject, hint, err)
	}
	return fmt.Errorf("failed to %s for %s: %w", ctx.Operation, subject, err)
}
