package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "CARDVAULT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "source.base_url", typ: kString, env: "CARDVAULT_SOURCE_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Source.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Source.BaseURL },
	},
	{
		key: "source.title_prefix_len", typ: kInt, env: "CARDVAULT_SOURCE_TITLE_PREFIX_LEN",
		apply:   func(cfg *Config, v any) { cfg.Source.TitlePrefixLen = v.(int) },
		extract: func(cfg Config) any { return cfg.Source.TitlePrefixLen },
	},
	{
		key: "source.login_marker", typ: kString, env: "CARDVAULT_SOURCE_LOGIN_MARKER",
		apply:   func(cfg *Config, v any) { cfg.Source.LoginMarker = v.(string) },
		extract: func(cfg Config) any { return cfg.Source.LoginMarker },
	},
	{
		key: "crawl.start_id", typ: kInt, env: "CARDVAULT_CRAWL_START_ID",
		apply:   func(cfg *Config, v any) { cfg.Crawl.StartID = v.(int) },
		extract: func(cfg Config) any { return cfg.Crawl.StartID },
	},
	{
		key: "crawl.end_id", typ: kInt, env: "CARDVAULT_CRAWL_END_ID",
		apply:   func(cfg *Config, v any) { cfg.Crawl.EndID = v.(int) },
		extract: func(cfg Config) any { return cfg.Crawl.EndID },
	},
	{
		key: "crawl.delay", typ: kString, env: "CARDVAULT_CRAWL_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Crawl.Delay = v.(string) },
		extract: func(cfg Config) any { return cfg.Crawl.Delay },
	},
	{
		key: "storage.data_dir", typ: kString, env: "CARDVAULT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.cookie_file", typ: kString, env: "CARDVAULT_STORAGE_COOKIE_FILE",
		apply:   func(cfg *Config, v any) { cfg.Storage.CookieFile = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.CookieFile },
	},
	{
		key: "bot.token", typ: kString, env: "CARDVAULT_BOT_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Bot.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.Bot.Token },
	},
	{
		key: "log.level", typ: kString, env: "CARDVAULT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll returns all non-secret config key/value pairs from the current config.
func ShowAll(cfg Config) []KeyInfo {
	var result []KeyInfo
	for _, s := range specs {
		if s.secret {
			continue
		}
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  fmt.Sprintf("%v", s.extract(cfg)),
		})
	}
	return result
}

// SetKey writes a config key to the config file.
func SetKey(key, value string) error {
	b := newFileBackend()

	for _, s := range specs {
		if s.key != key {
			continue
		}
		if s.secret {
			return fmt.Errorf("cannot set secret %q via config; use environment variable %s", key, s.env)
		}
		switch s.typ {
		case kString:
			return b.SetString(key, value)
		case kInt:
			i, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer value for %s: %w", key, err)
			}
			return b.SetInt(key, i)
		}
	}

	return fmt.Errorf("unknown config key: %q", key)
}

// ValidKeys returns the list of valid non-secret config key names.
func ValidKeys() []string {
	var keys []string
	for _, s := range specs {
		if !s.secret {
			keys = append(keys, s.key)
		}
	}
	return keys
}
