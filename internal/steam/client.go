// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/staranto/steamctlgo/internal/cacheutil"
	"github.com/staranto/steamctlgo/internal/version"
)

const (
	DefaultAPIURL   = "https://api.steampowered.com"
	DefaultStoreURL = "https://store.steampowered.com"

	// maxBody bounds how much of a response is read. The largest legitimate
	// payloads (owned games for big libraries) are a few MB.
	maxBody = 32 << 20
)

// Client is the remote data source every object reads through. It holds no
// cached state of its own beyond the optional on-disk response cache.
type Client struct {
	Key         string
	APIURL      string
	StoreURL    string
	Language    string
	CountryCode string
	HTTP        *http.Client
	DiskCache   bool
}

type Option func(*Client)

func WithKey(key string) Option {
	return func(c *Client) { c.Key = strings.TrimSpace(key) }
}

func WithAPIURL(u string) Option {
	return func(c *Client) { c.APIURL = strings.TrimRight(u, "/") }
}

func WithStoreURL(u string) Option {
	return func(c *Client) { c.StoreURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTP.Timeout = d
		}
	}
}

// WithLanguage sets the language used for localized strings (l=).
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.Language = lang
		}
	}
}

// WithCountry sets the store country code (cc=) used for pricing.
func WithCountry(cc string) Option {
	return func(c *Client) {
		if cc != "" {
			c.CountryCode = strings.ToLower(cc)
		}
	}
}

// WithDiskCache enables the on-disk response cache for requests that ask for it.
func WithDiskCache(enabled bool) Option {
	return func(c *Client) { c.DiskCache = enabled }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		APIURL:      DefaultAPIURL,
		StoreURL:    DefaultStoreURL,
		Language:    "english",
		CountryCode: "us",
		HTTP:        cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one GET against either API.
type Request struct {
	// Base is the API root, normally Client.APIURL or Client.StoreURL.
	Base   string
	Path   string
	Params url.Values
	// Keyed requests carry the Web API key and fail with ErrNoAPIKey without one.
	Keyed bool
	// DiskTTL is the maximum age of a reusable on-disk response. Zero bypasses the
	// disk cache and a negative value accepts any age.
	DiskTTL time.Duration
	// Accept, when set, vets a well-formed response. A rejected response is
	// returned as its error and never reaches the disk cache.
	Accept func(gjson.Result) error
}

// cacheKey identifies the request without the API key so key rotation never
// invalidates the disk cache and the key never ends up in a file name's input.
func (r Request) cacheKey() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Encode()
}

func (r Request) host() string {
	if u, err := url.Parse(r.Base); err == nil && u.Host != "" {
		return u.Host
	}
	return "default"
}

// Fetch performs req and returns the parsed JSON document.
func (c *Client) Fetch(ctx context.Context, req Request) (gjson.Result, error) {
	params := url.Values{}
	for k, v := range req.Params {
		params[k] = append([]string(nil), v...)
	}
	req.Params = params

	display := req.Base + req.cacheKey()

	if req.Keyed {
		if c.Key == "" {
			return gjson.Result{}, ErrNoAPIKey
		}
	}

	subdirs := []string{req.host()}
	if c.DiskCache && req.DiskTTL != 0 {
		if entry, ok := cacheutil.ReadFresh(subdirs, req.cacheKey(), req.DiskTTL); ok && gjson.ValidBytes(entry.Data) {
			doc := gjson.ParseBytes(entry.Data)
			if req.Accept == nil || req.Accept(doc) == nil {
				log.Debugf("cache hit: %s (%s)", display, entry.Path)
				return doc, nil
			}
			log.Debugf("cache entry rejected: %s (%s)", display, entry.Path)
		}
	}

	target := req.Base + req.Path
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if req.Keyed {
		query.Set("key", c.Key)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request for %s: %w", display, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "steamctl/"+version.Version)

	log.Debugf("GET %s", display)
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		// url.Error repeats the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return gjson.Result{}, fmt.Errorf("failed to execute request %s: %w", display, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response from %s: %w", display, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &APIError{
			Status:  resp.StatusCode,
			URL:     display,
			Message: errorMessage(body),
		}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s: %w", display, ErrMalformed)
	}

	doc := gjson.ParseBytes(body)
	if req.Accept != nil {
		if err := req.Accept(doc); err != nil {
			return gjson.Result{}, err
		}
	}

	if c.DiskCache && req.DiskTTL != 0 {
		if err := cacheutil.Write(subdirs, req.cacheKey(), body); err != nil {
			log.WithError(err).Warnf("failed to write %s to cache", display)
		}
	}

	return doc, nil
}

// errorMessage digs a human readable message out of an error body, if any.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"playerstats.error", "error", "message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
