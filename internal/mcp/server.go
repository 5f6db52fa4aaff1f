package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"resumecanvas/internal/canvas"
	"resumecanvas/internal/editor"
	"resumecanvas/internal/pagination"
)

// Server is the MCP server for one editing session. It exposes tools,
// resources and prompts so AI agents can build a resume on the canvas.
type Server struct {
	mcp     *server.MCPServer
	session *editor.Session
	layout  *LayoutEngine
	caps    pagination.Capacities
	font    string
	log     *slog.Logger
}

// Deps holds everything the MCP server needs from the caller.
type Deps struct {
	Session *editor.Session
	// Capacities default to pagination.DefaultCapacities.
	Capacities pagination.Capacities
	// FontPath is used by render_resume; empty selects a system font.
	FontPath string
	Logger   *slog.Logger
	// CanvasWidth and CanvasHeight bound auto-placement.
	CanvasWidth, CanvasHeight float64
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	caps := deps.Capacities
	if caps == (pagination.Capacities{}) {
		caps = pagination.DefaultCapacities
	}
	w, h := deps.CanvasWidth, deps.CanvasHeight
	if w <= 0 {
		w = canvas.DefaultWidth
	}
	if h <= 0 {
		h = canvas.DefaultHeight
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		session: deps.Session,
		layout:  NewLayoutEngine(w, h),
		caps:    caps,
		font:    deps.FontPath,
		log:     log.With("component", "mcp"),
	}

	s.mcp = server.NewMCPServer(
		"resumecanvas-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerElementTools()
	s.registerProjectTools()
	s.registerResumeTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp: starting stdio server", "project", s.session.Identity().String())
	return server.ServeStdio(s.mcp)
}
