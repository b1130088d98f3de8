package dbmigrate

import (
	"fmt"

	"github.com/fdg312/fitbot/internal/config"
)

// Selection is the database URL chosen for DDL and where it came from.
type Selection struct {
	URL     string
	Source  string
	Warning string
}

// SelectDatabaseURL selects DB URL for migrations.
// Priority: DIRECT > DATABASE_URL > POOLED (with warning).
// If requireDirect is true, only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (Selection, error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return Selection{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
		}
		return Selection{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	}

	switch {
	case cfg.DatabaseURLDirect != "":
		return Selection{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	case cfg.DatabaseURLRaw != "":
		return Selection{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}, nil
	case cfg.DatabaseURLPooled != "":
		return Selection{
			URL:     cfg.DatabaseURLPooled,
			Source:  "DATABASE_URL_POOLED",
			Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT",
		}, nil
	}
	return Selection{}, fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}

// StartupSelection picks the URL for migrations run by the API at boot.
// The slot table is tiny, so a runtime URL is accepted when no direct URL is set.
func StartupSelection(cfg *config.Config) (Selection, error) {
	if cfg.DatabaseURLDirect != "" {
		return SelectDatabaseURL(cfg, true)
	}
	return SelectDatabaseURL(cfg, false)
}
