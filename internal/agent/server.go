// Package agent exposes the deployment and monitoring records over MCP so an
// AI assistant can answer questions about the state of the platform.
package agent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"questctl/internal/store"
	"questctl/pkg/logging"
)

// Config configures the agent server.
type Config struct {
	Host  string
	Port  int
	Store *store.Store
}

// Server is an MCP server over SSE transport backed by the on-disk records.
type Server struct {
	cfg       Config
	mcpServer *server.MCPServer
	sseServer *server.SSEServer
}

// New assembles the server and registers its tools.
func New(cfg Config, version string) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.Store == nil {
		cfg.Store = store.New("deployments", "monitoring")
	}

	mcpServer := server.NewMCPServer(
		"questctl-agent",
		version,
		server.WithToolCapabilities(true),
	)

	s := &Server{cfg: cfg, mcpServer: mcpServer}
	s.registerTools()
	return s
}

// Start brings the SSE transport up in the background.
func (s *Server) Start(ctx context.Context) error {
	baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Host, s.cfg.Port)
	s.sseServer = server.NewSSEServer(
		s.mcpServer,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	logging.Info("Agent", "Starting MCP agent server on %s", addr)

	sseServer := s.sseServer
	go func() {
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Error("Agent", err, "SSE server error")
		}
	}()
	return nil
}

// Stop shuts the SSE transport down.
func (s *Server) Stop(ctx context.Context) error {
	if s.sseServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logging.Info("Agent", "Stopping MCP agent server")
	return s.sseServer.Shutdown(shutdownCtx)
}
