// Package web provides an HTTP server exposing the expense ledger as a JSON
// API.
//
// The server keeps one ledger in memory and writes it back to the data
// directory after every change. With WatchEnabled it also reloads when the
// files are changed by another process and tells connected clients through
// Server-Sent Events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/ledger"
	"github.com/robinvdvleuten/financetracker/report"
	"github.com/robinvdvleuten/financetracker/store"
	"github.com/robinvdvleuten/financetracker/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool
	Logger       *slog.Logger

	mu     sync.RWMutex
	store  *store.Store
	ledger *ledger.Ledger
	budget report.Budget

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, st *store.Store, categories expense.Categories) *Server {
	return NewWithVersion(port, st, categories, "", "")
}

func NewWithVersion(port int, st *store.Store, categories expense.Categories, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:      st,
		ledger:     ledger.New(ledger.WithCategories(categories)),
		budget:     report.Budget{},
		sseClients: make(map[chan string]struct{}),
	}
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// Start loads the data, then serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s", s.Addr()))
	defer timer.End()

	loadTimer := timer.Child("web.load")
	s.reload(ctx)
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelling the context also ends open event streams.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/expenses", s.handleGetExpenses)
	mux.HandleFunc("POST /api/expenses", s.requireWritable(s.handleAddExpense))
	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/reports/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/reports/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/budget", s.handleGetBudget)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	mux.HandleFunc("GET /api/version", s.handleVersion)

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			writeJSONError(w, http.StatusForbidden, "Server is in read-only mode")
			return
		}
		next(w, r)
	}
}

// reload replaces the ledger and budget with what is on disk.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reload(ctx context.Context) {
	records := s.store.LoadExpenses(ctx)
	budget := s.store.LoadBudget(ctx)

	s.mu.Lock()
	s.ledger.LoadAll(records)
	s.budget = budget
	s.mu.Unlock()

	s.Logger.Debug("ledger loaded", "expenses", len(records), "budgets", len(budget))
}

// startWatcher watches the data directory for changes to the expenses or
// budget file. The directory is watched rather than the files so that files
// created after startup and atomic renames are both seen.
func (s *Server) startWatcher(ctx context.Context) error {
	if err := os.MkdirAll(s.store.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(s.store.Dir()); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.store.Dir(), err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	watched := map[string]bool{
		filepath.Clean(s.store.DataFile()):   true,
		filepath.Clean(s.store.BudgetFile()): true,
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			// Remove/Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.reload(ctx)
				s.broadcast("reload")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}

func (s *Server) clientCount() int {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	return len(s.sseClients)
}
