package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Seeds   invitecrawl.SeedService
	Configs invitecrawl.ConfigService
	Results invitecrawl.ResultStore
	Status  invitecrawl.StatusSink
	Jobs    invitecrawl.JobStatusReader // nil unless a Redis mirror is configured
	Crawler invitecrawl.Crawler

	// ProgressInterval is how often crawl commands print progress.
	// Zero means DefaultProgressInterval.
	ProgressInterval time.Duration
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string `name:"db" env:"INVITECRAWL_DB" default:"${db}" help:"SQLite database path"`
	DataDir   string `name:"data-dir" env:"INVITECRAWL_DATA" help:"Also write results and status as JSON files to this directory"`
	RedisAddr string `name:"redis-addr" env:"INVITECRAWL_REDIS" help:"Also publish crawl status to this Redis server"`
	ChromeBin string `name:"chrome-bin" env:"INVITECRAWL_CHROME" help:"Chrome or Chromium binary for headless crawls"`
	NoSandbox bool   `name:"no-sandbox" help:"Disable the Chrome sandbox (needed as root in containers)"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	Crawl     CrawlCmd     `cmd:"" help:"Crawl the stored seed URLs"`
	CrawlURL  CrawlURLCmd  `cmd:"" name:"crawl-url" help:"Crawl a single URL without following its links"`
	AddURL    AddURLCmd    `cmd:"" name:"add-url" help:"Add a seed URL"`
	RemoveURL RemoveURLCmd `cmd:"" name:"remove-url" help:"Remove a seed URL"`
	URLs      URLsCmd      `cmd:"" name:"urls" help:"List seed URLs"`
	Status    StatusCmd    `cmd:"" help:"Show the last published crawl status"`
	Results   ResultsCmd   `cmd:"" help:"List discovered invite links by domain"`
	Config    ConfigCmd    `cmd:"" help:"Show or change crawl settings"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Headless bool `help:"Render pages in a headless browser for this crawl"`
}

// CrawlURLCmd is the "crawl-url" subcommand.
type CrawlURLCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// AddURLCmd is the "add-url" subcommand.
type AddURLCmd struct {
	URL string `arg:"" help:"Seed URL"`
}

// RemoveURLCmd is the "remove-url" subcommand.
type RemoveURLCmd struct {
	URL string `arg:"" help:"Seed URL"`
}

// URLsCmd is the "urls" subcommand.
type URLsCmd struct{}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Job string `help:"Show the status of this job ID (requires --redis-addr)"`
}

// ResultsCmd is the "results" subcommand.
type ResultsCmd struct {
	Bucket string `short:"b" help:"Only show this domain bucket"`
}

// ConfigCmd groups the "config" subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Show crawl settings"`
	Set  ConfigSetCmd  `cmd:"" help:"Change crawl settings"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand. Unset flags keep their
// stored values.
type ConfigSetCmd struct {
	MaxConcurrency    *int  `help:"Pages fetched in parallel"`
	MaxRequests       *int  `help:"Maximum pages fetched per crawl"`
	MaxRetries        *int  `help:"Retries for a failed fetch"`
	RequestTimeout    *int  `help:"Seconds allowed per fetch attempt"`
	NavigationTimeout *int  `help:"Seconds allowed for browser navigation"`
	SameDomainDelay   *int  `help:"Seconds between requests to the same host"`
	Headless          *bool `help:"Render pages in a headless browser"`

	Blacklist   []string `sep:"none" placeholder:"URL" help:"Never enqueue links starting with this URL (repeatable)"`
	Unblacklist []string `sep:"none" placeholder:"URL" help:"Remove a blacklisted URL (repeatable)"`
}
