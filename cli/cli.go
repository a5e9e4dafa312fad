// Package cli implements the financetracker command line: one kong command
// per ledger or report operation, plus an interactive menu.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/robinvdvleuten/financetracker/config"
	"github.com/robinvdvleuten/financetracker/ledger"
	"github.com/robinvdvleuten/financetracker/output"
	"github.com/robinvdvleuten/financetracker/report"
	"github.com/robinvdvleuten/financetracker/store"
	"github.com/robinvdvleuten/financetracker/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

func printTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(title))
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// session is everything a command needs: the loaded ledger and budget, the
// store they came from, and the output plumbing.
type session struct {
	ctx       context.Context
	cfg       *config.Config
	store     *store.Store
	ledger    *ledger.Ledger
	budget    report.Budget
	logger    *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
	styles    *output.Styles
	json      bool
	collector telemetry.Collector
	timer     telemetry.Timer
}

// open loads configuration and data for the command named name.
func (g *Globals) open(ctx *kong.Context, name string) (*session, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.DataDir != "" {
		cfg.DataDir = g.DataDir
	}

	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(ctx.Stderr, &slog.HandlerOptions{Level: level}))

	s := &session{
		ctx:    context.Background(),
		cfg:    cfg,
		logger: logger,
		stdout: ctx.Stdout,
		stderr: ctx.Stderr,
		styles: output.NewStyles(ctx.Stdout),
		json:   g.JSON,
	}

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
		s.timer = s.collector.Start(name)
	}

	s.store = store.New(cfg.DataDir, store.WithLogger(logger))
	s.ledger = ledger.New(ledger.WithCategories(cfg.CategorySet()))
	s.reload()

	logger.Debug("session opened", "data_dir", cfg.DataDir, "expenses", s.ledger.Len())

	return s, nil
}

// reload replaces the in-memory ledger and budget with what is on disk.
func (s *session) reload() {
	s.ledger.LoadAll(s.store.LoadExpenses(s.ctx))
	s.budget = s.store.LoadBudget(s.ctx)
}

// save writes both the expenses and the budget.
func (s *session) save() error {
	if err := s.store.SaveExpenses(s.ctx, s.ledger.ExportAll()); err != nil {
		return err
	}
	return s.store.SaveBudget(s.ctx, s.budget)
}

// close prints telemetry when it was requested.
func (s *session) close() {
	if s.collector == nil {
		return
	}
	s.timer.End()
	_, _ = fmt.Fprintln(s.stderr)
	s.collector.Report(s.stderr)
}

func (s *session) money(amount decimal.Decimal) string {
	return output.Money(s.cfg.Currency, amount)
}
