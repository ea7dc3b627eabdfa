// Command ink-sources is a small host harness around the bundled content
// sources: it registers them the way the reader host would and exposes
// each operation as a subcommand for manual testing.
package main

import (
	"log"
	"time"

	"github.com/inkreader/ink-sources/internal/config"
	"github.com/inkreader/ink-sources/internal/source"
	"github.com/inkreader/ink-sources/internal/sources/demonicscans"
	"github.com/inkreader/ink-sources/internal/sources/toonily"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	registerSources(cfg)
	Execute()
}

func registerSources(cfg *config.Config) {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	ts := cfg.Source(toonily.Manifest.ID)
	source.Register(toonily.New(toonily.Options{
		UserAgent:        cfg.UserAgent,
		Cookie:           ts.Cookie,
		Timeout:          timeout,
		RateRequests:     ts.RateLimit.Requests,
		RateInterval:     time.Duration(ts.RateLimit.Interval) * time.Second,
		BypassCloudflare: ts.BypassCloudflare,
	}))

	ds := cfg.Source(demonicscans.Manifest.ID)
	source.Register(demonicscans.New(demonicscans.Options{
		UserAgent:        cfg.UserAgent,
		Timeout:          timeout,
		RateRequests:     ds.RateLimit.Requests,
		RateInterval:     time.Duration(ds.RateLimit.Interval) * time.Second,
		BypassCloudflare: ds.BypassCloudflare,
	}))
}
