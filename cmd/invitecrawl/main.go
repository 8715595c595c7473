package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/crawl"
	"github.com/fwojciec/invitecrawl/fs"
	"github.com/fwojciec/invitecrawl/goquery"
	icshttp "github.com/fwojciec/invitecrawl/http"
	"github.com/fwojciec/invitecrawl/redis"
	"github.com/fwojciec/invitecrawl/rod"
	icslog "github.com/fwojciec/invitecrawl/slog"
	"github.com/fwojciec/invitecrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// DefaultProgressInterval is how often a running crawl prints progress.
const DefaultProgressInterval = time.Second

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Matcher recognizes invite links in crawled pages.
	// Defaults to invitecrawl.DefaultMatcher.
	Matcher *invitecrawl.Matcher

	// ProgressInterval is how often crawl progress is printed.
	ProgressInterval time.Duration

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:           defaultDBPath(),
		ProgressInterval: DefaultProgressInterval,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
// Failures are reported on stderr as "error: <message>".
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:              ctx,
		Stdout:           stdout,
		Stderr:           stderr,
		ProgressInterval: m.ProgressInterval,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("invitecrawl"),
		kong.Description("Crawl websites and collect group invite links."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"db": m.DBPath},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'invitecrawl --help' to see available commands")
		return invitecrawl.Errorf(invitecrawl.EINVALID, "no command specified")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if err := m.open(ctx, cli, deps); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	defer m.Close()

	if command == "crawl" || command == "crawl-url" {
		engine, err := m.newEngine(ctx, cli, deps)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", errorText(err))
			return err
		}
		deps.Crawler = engine
	}

	return kongCtx.Run(deps)
}

// open connects the storage backends named by the global flags and wires
// them into deps.
func (m *Main) open(ctx context.Context, cli *CLI, deps *Dependencies) error {
	if dir := filepath.Dir(cli.DB); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}
	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set INVITECRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}

	deps.Seeds = sqlite.NewSeedService(m.DB)
	deps.Configs = sqlite.NewConfigService(m.DB)

	var results invitecrawl.ResultStore = sqlite.NewResultStore(m.DB)
	var status invitecrawl.StatusSink = sqlite.NewStatusSink(m.DB)
	var resultMirrors []invitecrawl.ResultStore
	var statusMirrors []invitecrawl.StatusSink

	if cli.DataDir != "" {
		if err := os.MkdirAll(cli.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %q: %w", cli.DataDir, err)
		}
		resultMirrors = append(resultMirrors, fs.NewResultStore(cli.DataDir))
		statusMirrors = append(statusMirrors, fs.NewStatusSink(cli.DataDir))
	}

	if cli.RedisAddr != "" {
		rs := redis.NewStatusSink(cli.RedisAddr)
		m.closers = append(m.closers, rs)
		if err := rs.Ping(ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Unset INVITECRAWL_REDIS to run without a status mirror\n")
			return fmt.Errorf("failed to connect to redis at %q: %s", cli.RedisAddr, invitecrawl.ErrorMessage(err))
		}
		statusMirrors = append(statusMirrors, rs)
		deps.Jobs = rs
	}

	if len(resultMirrors) > 0 {
		results = &crawl.TeeResultStore{Primary: results, Mirrors: resultMirrors, Logger: deps.Logger}
	}
	if len(statusMirrors) > 0 {
		status = &crawl.TeeStatusSink{Primary: status, Mirrors: statusMirrors}
	}
	deps.Results = results
	deps.Status = status
	return nil
}

// newEngine builds the crawl engine from the stored settings.
// The browser is only launched when headless fetching is enabled.
func (m *Main) newEngine(ctx context.Context, cli *CLI, deps *Dependencies) (*crawl.Engine, error) {
	cfg, err := deps.Configs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cli.Crawl.Headless {
		cfg.UseHeadless = true
	}

	logger := deps.Logger
	httpFetcher := icshttp.NewFetcher()
	m.closers = append(m.closers, httpFetcher)

	engine := &crawl.Engine{
		Fetcher:    icslog.NewLoggingFetcher(httpFetcher, logger),
		Extractor:  icslog.NewLoggingExtractor(goquery.NewExtractor(m.Matcher), logger),
		Results:    icslog.NewLoggingResultStore(deps.Results, logger),
		StatusSink: deps.Status,
		Logger:     logger,
		Config:     *cfg,
	}

	if cfg.UseHeadless {
		browser, err := rod.NewFetcher(
			rod.WithNavigationTimeout(cfg.NavigationTimeout()),
			rod.WithManagerOptions(
				rod.WithBrowserBin(cli.ChromeBin),
				rod.WithNoSandbox(cli.NoSandbox),
				rod.WithLogger(logger),
			),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed (see --chrome-bin and --no-sandbox)")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, browser)
		engine.HeadlessFetcher = icslog.NewLoggingFetcher(browser, logger)
	}

	return engine, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "invitecrawl.db"
	}
	return filepath.Join(home, ".invitecrawl", "invitecrawl.db")
}

// errorText returns the message of application errors and the full text of
// anything else.
func errorText(err error) string {
	if invitecrawl.ErrorCode(err) == invitecrawl.EINTERNAL {
		return err.Error()
	}
	return invitecrawl.ErrorMessage(err)
}
