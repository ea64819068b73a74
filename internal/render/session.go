// Package render fetches pages from the source site and exposes them as
// queryable documents. It stands in for a browser: a long-lived session
// carries the authentication cookies, pages answer class-based element
// lookups, and element text reads the way a browser would render it.
package render

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) cardvault/1.0"

// Lookup is the outcome of an element lookup. Missing elements are an
// expected condition (deleted cards render a page without them), so they
// are reported as a status, not an error.
type Lookup int

const (
	LookupFound Lookup = iota
	LookupNotFound
	LookupTransient
)

// Session is a long-lived fetch session with a cookie jar. It is created
// once per process and reused for every page.
type Session struct {
	client  *http.Client
	baseURL *url.URL
}

// NewSession creates a session rooted at baseURL with an empty cookie jar.
func NewSession(baseURL string) (*Session, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Session{
		client:  &http.Client{Jar: jar, Timeout: 30 * time.Second},
		baseURL: u,
	}, nil
}

// SetCookies installs stored cookies into the session's jar, scoped to
// the session's base URL.
func (s *Session) SetCookies(cookies []Cookie) {
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		hc = append(hc, &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	s.client.Jar.SetCookies(s.baseURL, hc)
}

// Cookies returns the session's current cookies for the base URL.
func (s *Session) Cookies() []Cookie {
	var out []Cookie
	for _, c := range s.client.Jar.Cookies(s.baseURL) {
		out = append(out, Cookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path})
	}
	return out
}

// Resolve makes ref absolute against the session's base URL. Refs that
// are already absolute come back unchanged.
func (s *Session) Resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return s.baseURL.ResolveReference(u).String()
}

// Open fetches pageURL and parses it into a Page. The HTTP status is
// deliberately not checked: a deleted card serves an error page, and the
// absence of the expected elements on it is the not-found signal.
func (s *Session) Open(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	page, err := ParsePage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return page, nil
}

// CheckClass fetches pageURL and reports whether an element with the
// given class is present. Fetch failures map to LookupTransient. The
// login flow uses this to wait for the login marker to disappear.
func (s *Session) CheckClass(ctx context.Context, pageURL, class string) Lookup {
	page, err := s.Open(ctx, pageURL)
	if err != nil {
		return LookupTransient
	}
	_, st := page.FindClass(class)
	return st
}
