package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/fwojciec/invitecrawl"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	cfg, err := deps.Configs.GetConfig(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	printConfig(deps.Stdout, cfg)
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	cfg, err := deps.Configs.GetConfig(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}

	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.MaxConcurrency, c.MaxConcurrency)
	set(&cfg.MaxRequestsPerCrawl, c.MaxRequests)
	set(&cfg.MaxRequestRetries, c.MaxRetries)
	set(&cfg.RequestHandlerTimeoutSecs, c.RequestTimeout)
	set(&cfg.NavigationTimeoutSecs, c.NavigationTimeout)
	set(&cfg.SameDomainDelaySecs, c.SameDomainDelay)
	if c.Headless != nil {
		cfg.UseHeadless = *c.Headless
	}
	for _, u := range c.Unblacklist {
		i := slices.Index(cfg.BlacklistURLs, u)
		if i < 0 {
			err := invitecrawl.Errorf(invitecrawl.ENOTFOUND, "%q is not blacklisted", u)
			fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
			return err
		}
		cfg.BlacklistURLs = slices.Delete(cfg.BlacklistURLs, i, i+1)
	}
	cfg.BlacklistURLs = append(cfg.BlacklistURLs, c.Blacklist...)

	// SaveConfig clamps out-of-range values and rejects malformed URLs.
	if err := deps.Configs.SaveConfig(deps.Ctx, cfg); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	printConfig(deps.Stdout, cfg)
	return nil
}

func printConfig(w io.Writer, cfg *invitecrawl.Config) {
	fmt.Fprintf(w, "max-concurrency      %d\n", cfg.MaxConcurrency)
	fmt.Fprintf(w, "max-requests         %d\n", cfg.MaxRequestsPerCrawl)
	fmt.Fprintf(w, "max-retries          %d\n", cfg.MaxRequestRetries)
	fmt.Fprintf(w, "request-timeout      %ds\n", cfg.RequestHandlerTimeoutSecs)
	fmt.Fprintf(w, "navigation-timeout   %ds\n", cfg.NavigationTimeoutSecs)
	fmt.Fprintf(w, "same-domain-delay    %ds\n", cfg.SameDomainDelaySecs)
	fmt.Fprintf(w, "headless             %t\n", cfg.UseHeadless)
	if len(cfg.BlacklistURLs) == 0 {
		fmt.Fprintln(w, "blacklist            -")
		return
	}
	for i, u := range cfg.BlacklistURLs {
		label := ""
		if i == 0 {
			label = "blacklist"
		}
		fmt.Fprintf(w, "%-21s%s\n", label, u)
	}
}
