package repo

import (
	"time"

	"github.com/netonframework/docsite/pkg/site"
)

// Snapshot an accepted, validated site config
type Snapshot struct {
	Config   *site.SiteConfig
	Index    *site.Index
	Revision string
	Loaded   time.Time
}

func newSnapshot(cfg *site.SiteConfig) (*Snapshot, error) {
	revision, err := cfg.Revision()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Config:   cfg,
		Index:    site.NewIndex(cfg.ThemeConfig.Sidebar),
		Revision: revision,
		Loaded:   time.Now(),
	}, nil
}
