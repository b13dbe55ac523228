package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"blip_capture": {
		def:     captureToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCapture },
	},
	"blip_show": {
		def:     showToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShow },
	},
	"blip_surface": {
		def:     surfaceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSurface },
	},
	"blip_context": {
		def:     contextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContext },
	},
	"blip_note": {
		def:     noteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNote },
	},
	"blip_snooze": {
		def:     snoozeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSnooze },
	},
	"blip_archive": {
		def:     archiveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArchive },
	},
	"blip_promote": {
		def:     promoteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePromote },
	},
	"blip_link": {
		def:     linkToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLink },
	},
	"blip_tag": {
		def:     tagToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTag },
	},
	"blip_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"blip_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"blip_recent": {
		def:     recentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecent },
	},
	"blip_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"blip_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with blip tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(s *store.Store, cfg *config.Config, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"blip",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(s, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		srv.AddTool(entry.def, entry.handler(h))
	}

	return srv
}

// Run starts the MCP server using stdio transport.
func Run(s *store.Store, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(s, cfg, version))
}
