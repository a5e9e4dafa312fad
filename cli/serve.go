package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/financetracker/web"
)

type ServeCmd struct {
	Port     int  `help:"Port to listen on. Defaults to the configured port."`
	ReadOnly bool `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	Watch    bool `help:"Reload when the data files change on disk." short:"w"`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "serve")
	if err != nil {
		return err
	}
	defer s.close()

	port := cmd.Port
	if port == 0 {
		port = s.cfg.Port
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(port, s.store, s.ledger.Categories(), version, commitSHA)
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch
	server.Logger = s.logger

	printInfof(s.stdout, "Starting server on %s", server.Addr())
	printInfof(s.stdout, "Serving data from: %s", pathStyle.Render(s.store.Dir()))

	if cmd.ReadOnly {
		printInfof(s.stdout, "Server running in READ-ONLY mode")
	}
	if cmd.Watch {
		printInfof(s.stdout, "Watching data files for changes")
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(runCtx)
}
