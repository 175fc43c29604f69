// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"
	"net/url"
	"strings"
)

// SearchApps runs a store search. Returned apps carry the name from the result
// listing; every other property is fetched on demand.
func SearchApps(ctx context.Context, c *Client, term string) ([]*App, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	doc, err := c.Fetch(ctx, Request{
		Base: c.StoreURL,
		Path: "/api/storesearch/",
		Params: url.Values{
			"term": {term},
			"l":    {c.Language},
			"cc":   {c.CountryCode},
		},
	})
	if err != nil {
		return nil, Friendly(err, ErrorContext{Operation: "search the store", Resource: "term", ID: term})
	}

	var result []*App
	for _, item := range doc.Get("items").Array() {
		id := int(item.Get("id").Int())
		if id == 0 {
			continue
		}
		result = append(result, NewApp(c, id, WithAppName(item.Get("name").String())))
	}
	return result, nil
}
