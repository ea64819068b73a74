// Package config loads cardvault configuration from defaults, a JSON
// config file at $XDG_CONFIG_HOME/cardvault/config.json, and CARDVAULT_*
// environment variables, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Server  ServerConfig
	Source  SourceConfig
	Crawl   CrawlConfig
	Storage StorageConfig
	Bot     BotConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type SourceConfig struct {
	// BaseURL is the root of the source site.
	BaseURL string
	// TitlePrefixLen is the rune length of the fixed site prefix on card
	// page titles; the remainder is the card name.
	TitlePrefixLen int
	// LoginMarker is the element class present only while logged out.
	LoginMarker string
}

type CrawlConfig struct {
	StartID int
	EndID   int
	// Delay is the per-card throttle, as a time.ParseDuration string.
	Delay string
}

type StorageConfig struct {
	DataDir    string
	CookieFile string
}

type BotConfig struct {
	// Token is the Telegram bot token. Secret: environment only.
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Source: SourceConfig{
			BaseURL:        "https://mangabuff.ru",
			TitlePrefixLen: 22,
			LoginMarker:    "login-button",
		},
		Crawl: CrawlConfig{
			StartID: 877,
			EndID:   280921,
			Delay:   "1s",
		},
		Storage: StorageConfig{
			DataDir:    dataDir,
			CookieFile: filepath.Join(dataDir, "cookies.json"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "cardvault-data"
		}
	}
	return filepath.Join(dir, "cardvault")
}

// Load reads configuration from the config file and environment.
// The bot token is never read from the file; commands that need it check
// for it themselves.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
