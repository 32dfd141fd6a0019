// Package mcp serves recovery reports to MCP clients.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Recovery", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Recovery analytics server. Reports per-muscle fatigue, daily condition from HRV and resting heart rate, recovery modifiers from sleep, and a suggested next workout. Every tool accepts an optional reference time."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetRecoveryReport, Handler: h.getRecoveryReport},
		server.ServerTool{Tool: toolGetMuscleFatigue, Handler: h.getMuscleFatigue},
		server.ServerTool{Tool: toolGetConditionScore, Handler: h.getConditionScore},
		server.ServerTool{Tool: toolGetWorkoutSuggestion, Handler: h.getWorkoutSuggestion},
		server.ServerTool{Tool: toolGetRecoveryModifiers, Handler: h.getRecoveryModifiers},
	)

	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// location is the zone date-only references are read in: the engine's when
// the source knows it, the machine's otherwise.
func (h *handlers) location() *time.Location {
	if l, ok := h.ds.(locator); ok {
		if loc := l.Location(); loc != nil {
			return loc
		}
	}
	return time.Local
}

var resToday = mcp.NewResource(
	"recovery://today",
	"Today's Recovery",
	mcp.WithResourceDescription("Full recovery report for right now: fatigue, condition, modifiers and the suggested workout"),
	mcp.WithMIMEType("application/json"),
)
