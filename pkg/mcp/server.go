package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	medtrack "github.com/unowned-ai/medtrack/pkg"
	"github.com/unowned-ai/medtrack/pkg/config"
	pkgdb "github.com/unowned-ai/medtrack/pkg/db"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
	"github.com/unowned-ai/medtrack/pkg/utils"
)

// MedtrackMCPServer exposes the reminder store as MCP tools. mcp-go may run
// handlers concurrently, so every tool call holds mu while it uses the store.
type MedtrackMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	DbPath    string

	mu    sync.Mutex
	store *reminders.Store
	loc   *locale.Locale
	cal   config.Calendar
	log   zerolog.Logger
}

// OpenMedtrackMCPServer opens (and if needed creates) the database named by
// cfg and serves the store kept in it.
func OpenMedtrackMCPServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*MedtrackMCPServer, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return nil, err
	}

	dbConn, err := pkgdb.OpenDBConnection(dbPath, cfg.WAL, cfg.Sync)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Automatically initialize or migrate the database schema.
	if err := pkgdb.UpgradeDB(dbConn, dbPath, pkgdb.TargetSchemaVersion, log); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", dbPath, err)
	}

	gw := reminders.NewGateway(pkgdb.NewKV(dbConn), log)
	store, err := reminders.Open(ctx, gw, reminders.WithLogger(log))
	if err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	s := NewMedtrackMCPServer(store, loc, cfg.Calendar, log)
	s.db = dbConn
	s.DbPath = dbPath
	return s, nil
}

// NewMedtrackMCPServer builds a server around an open store and registers
// every tool.
func NewMedtrackMCPServer(store *reminders.Store, loc *locale.Locale, cal config.Calendar, log zerolog.Logger) *MedtrackMCPServer {
	mcpServer := server.NewMCPServer(
		"Medtrack MCP Server",
		medtrack.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	s := &MedtrackMCPServer{
		mcpServer: mcpServer,
		store:     store,
		loc:       loc,
		cal:       cal,
		log:       log,
	}
	s.registerTools()
	return s
}

// Start runs the stdio event loop.
func (s *MedtrackMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *MedtrackMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *MedtrackMCPServer) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		s.log.Warn().Err(err).Msg("WAL checkpoint failed during close")
	}
	return s.db.Close()
}
