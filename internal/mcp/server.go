// Package mcp provides an MCP (Model Context Protocol) server that lets an
// agent play corpsim: onboard a company, plan features, advance time and
// read the results.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/corpsim/internal/logging"
	"github.com/nvandessel/corpsim/internal/ratelimit"
	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/store"
)

// Server wraps the MCP SDK server around one simulation session.
type Server struct {
	server       *sdk.Server
	session      *session.Session
	journal      store.Journal
	auditLogger  *AuditLogger
	toolLimiters ratelimit.ToolLimiters
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "corpsim")
	Version string // Server version

	// Session is the simulation the tools act on. Required.
	Session *session.Session

	// Journal backs corpsim_history. Optional.
	Journal store.Journal

	// AuditDir receives audit.jsonl. Empty disables auditing.
	AuditDir string

	Logger *slog.Logger
}

// NewServer creates a new MCP server with the corpsim tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("mcp server requires a session")
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		session:      cfg.Session,
		journal:      cfg.Journal,
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       cfg.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if cfg.AuditDir != "" {
		s.auditLogger = NewAuditLogger(cfg.AuditDir)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("mcp server listening on stdio")
	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.Close()
	return err
}

// Close releases the audit log. The session and journal belong to the caller.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}
