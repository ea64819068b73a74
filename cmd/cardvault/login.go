package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovoronin/cardvault/internal/config"
	"github.com/ovoronin/cardvault/internal/render"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store session credentials for the crawler",
	Long: `Store session credentials for the crawler.

Log in to the source site in a browser, copy the session cookies, and
pass them here. The command verifies the session by checking that the
login marker is gone from the site's front page, then writes the cookie
file the crawler reads on every run.

Example:
  cardvault login --cookie session_id=abc123 --cookie XSRF-TOKEN=def456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, _ := cmd.Flags().GetStringArray("cookie")
		keep, _ := cmd.Flags().GetString("keep")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		return runLogin(specs, keep, timeout)
	},
}

func init() {
	loginCmd.Flags().StringArray("cookie", nil, "session cookie as name=value (repeatable)")
	loginCmd.Flags().String("keep", "", "comma-separated cookie names to persist (default: all)")
	loginCmd.Flags().Duration("timeout", 30*time.Second, "how long to retry login verification")
}

func parseCookieSpec(spec string) (render.Cookie, error) {
	name, value, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return render.Cookie{}, fmt.Errorf("invalid cookie %q: expected name=value", spec)
	}
	return render.Cookie{Name: name, Value: value, Path: "/"}, nil
}

func runLogin(specs []string, keep string, timeout time.Duration) error {
	if len(specs) == 0 {
		return fmt.Errorf("at least one --cookie name=value is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	var cookies []render.Cookie
	for _, spec := range specs {
		c, err := parseCookieSpec(spec)
		if err != nil {
			return err
		}
		cookies = append(cookies, c)
	}

	session, err := render.NewSession(cfg.Source.BaseURL)
	if err != nil {
		return err
	}
	session.SetCookies(cookies)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	printStep("Verifying session against %s", cfg.Source.BaseURL)
	for {
		switch session.CheckClass(ctx, cfg.Source.BaseURL, cfg.Source.LoginMarker) {
		case render.LookupNotFound:
			// Login marker gone: the session is authenticated.
			var keepNames []string
			if keep != "" {
				keepNames = strings.Split(keep, ",")
			}
			if err := render.SaveCookies(cfg.Storage.CookieFile, session.Cookies(), keepNames); err != nil {
				return err
			}
			printSuccess("Credentials saved to %s", cfg.Storage.CookieFile)
			return nil
		case render.LookupFound:
			return fmt.Errorf("site still shows the login marker; the provided cookies are not a valid session")
		case render.LookupTransient:
			if ctx.Err() != nil {
				return fmt.Errorf("could not verify login within %s", timeout)
			}
			printWarning("fetch failed, retrying...")
			select {
			case <-ctx.Done():
				return fmt.Errorf("could not verify login within %s", timeout)
			case <-time.After(2 * time.Second):
			}
		}
	}
}
