// Package appconfig is the config file shared by insights-server and
// insights-cli.
package appconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"ebayinsights-backend/lib/configutil"
	"ebayinsights-backend/lib/configutil/sqldb"
	"ebayinsights-backend/lib/mailutil"
	"ebayinsights-backend/lib/scrapers/ebay"
	"ebayinsights-backend/lib/titleparse"
	"ebayinsights-backend/services/listings/db"
)

const (
	DefaultPath     = "config.json5"
	DefaultPort     = 8000
	DefaultDatabase = "ebay_insights.db"
)

type HttpConfig struct {
	Port int `json:"port"`
}

type Config struct {
	Database sqldb.Struct        `json:"database"`
	Ebay     ebay.Config         `json:"ebay"`
	Http     HttpConfig          `json:"http"`
	Smtp     mailutil.SmtpConfig `json:"smtp"`
	// path to a yaml brand profile, the built-in Rab profile is used when empty
	Vocabulary string `json:"vocabulary"`
}

func (c *Config) applyDefaults() {
	if c.Http.Port == 0 {
		c.Http.Port = DefaultPort
	}
	if c.Database.File == "" && c.Database.Url == "" {
		c.Database.File = DefaultDatabase
	}
}

// Load reads `path` (plus its .local override) after loading .env into the
// environment. A missing config file is not an error, every section has a
// default except for the eBay app id.
func Load(path string) (Config, error) {
	err := configutil.LoadDotenv()
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// OpenDB opens the configured database and applies the listings schema.
func (c Config) OpenDB() (*sql.DB, error) {
	return c.Database.OpenAndMigrate(db.Schema)
}

func (c Config) Parser() (*titleparse.Parser, error) {
	if c.Vocabulary == "" {
		return titleparse.NewRabParser(), nil
	}
	vocab, err := titleparse.LoadVocabulary(c.Vocabulary)
	if err != nil {
		return nil, err
	}
	return titleparse.NewParser(vocab), nil
}

// Marketplace returns nil when no app id is configured.
func (c Config) Marketplace() (*ebay.Client, error) {
	if c.Ebay.AppID == "" {
		return nil, nil
	}
	return ebay.NewClient(c.Ebay)
}
