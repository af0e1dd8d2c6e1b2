package cmd

import (
	"context"

	"github.com/ardnew/smpl/cli/cmd/repl"
	"github.com/ardnew/smpl/log"
)

// Repl starts the interactive shell.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	cache := pathsFrom(ctx).Cache
	if r.NoHistory {
		cache = ""
	}

	return repl.Run(ctx, s.ev, cache, log.Default())
}
