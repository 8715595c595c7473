package main

import (
	"fmt"

	"github.com/fwojciec/invitecrawl"
)

// Run executes the add-url command.
func (c *AddURLCmd) Run(deps *Dependencies) error {
	if err := deps.Seeds.AddSeedURL(deps.Ctx, c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Added %s\n", c.URL)
	return nil
}

// Run executes the remove-url command.
func (c *RemoveURLCmd) Run(deps *Dependencies) error {
	if err := deps.Seeds.RemoveSeedURL(deps.Ctx, c.URL); err != nil {
		if invitecrawl.ErrorCode(err) == invitecrawl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s. Use 'invitecrawl urls' to see stored URLs.\n", invitecrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %s\n", c.URL)
	return nil
}

// Run executes the urls command.
func (c *URLsCmd) Run(deps *Dependencies) error {
	urls, err := deps.Seeds.SeedURLs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No seed URLs. Use 'invitecrawl add-url' to add one.")
		return nil
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}
