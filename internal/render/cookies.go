package render

import (
	"encoding/json"
	"fmt"
	"os"
)

// Cookie is one stored session cookie. The file layout matches what
// browser tooling exports: a JSON array of name/value/domain/path objects.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}

// LoadCookies reads a cookie file. A missing file is not an error; it
// returns an empty list, which callers treat as "login required".
func LoadCookies(path string) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parsing cookie file %s: %w", path, err)
	}
	return cookies, nil
}

// SaveCookies writes cookies to path. Only the named cookies are kept
// when keep is non-empty; the session cookie and CSRF token are all the
// crawler needs, and dropping the rest keeps tracking state out of the
// file.
func SaveCookies(path string, cookies []Cookie, keep []string) error {
	filtered := cookies
	if len(keep) > 0 {
		wanted := make(map[string]bool, len(keep))
		for _, name := range keep {
			wanted[name] = true
		}
		filtered = nil
		for _, c := range cookies {
			if wanted[c.Name] {
				filtered = append(filtered, c)
			}
		}
	}

	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing cookie file: %w", err)
	}
	return nil
}
