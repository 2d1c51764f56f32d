package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("threehundred", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("300-workout program tracker. Read the training calendar, look up workouts, mark them done, log sets and move workouts by adding rest days. Dates are yyyy-mm-dd; workouts are keyed like month1-3."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetNextWorkout, Handler: h.getNextWorkout},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolMarkComplete, Handler: h.markComplete},
		server.ServerTool{Tool: toolToggleExercise, Handler: h.toggleExercise},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolPushWorkout, Handler: h.pushWorkout},
		server.ServerTool{Tool: toolSetRestDay, Handler: h.setRestDay},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProgram, Handler: h.program},
		server.ServerResource{Resource: resProgress, Handler: h.progress},
		server.ServerResource{Resource: resSyncStatus, Handler: h.syncStatus},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProgram = mcp.NewResource(
	"threehundred://program",
	"Program",
	mcp.WithResourceDescription("Every block of the program with workout previews and completion"),
	mcp.WithMIMEType("application/json"),
)

var resProgress = mcp.NewResource(
	"threehundred://progress",
	"Progress",
	mcp.WithResourceDescription("Completed workouts per block and overall percentage"),
	mcp.WithMIMEType("application/json"),
)

var resSyncStatus = mcp.NewResource(
	"threehundred://sync_status",
	"Sync Status",
	mcp.WithResourceDescription("Whether local changes have reached the remote store"),
	mcp.WithMIMEType("application/json"),
)
