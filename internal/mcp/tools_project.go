package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"resumecanvas/internal/autosave"
	"resumecanvas/internal/editor"
)

func (s *Server) registerProjectTools() {
	// ── project_info ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("project_info",
		mcp.WithDescription("Show the project's identity, metadata and save status"),
	), s.handleProjectInfo)

	// ── rename_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_project",
		mcp.WithDescription("Change the project name"),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameProject)

	// ── set_description ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_description",
		mcp.WithDescription("Change the project description"),
		mcp.WithString("description", mcp.Description("New description"), mcp.Required()),
	), s.handleSetDescription)

	// ── save_project ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_project",
		mcp.WithDescription("Save now instead of waiting for autosave"),
	), s.handleSaveProject)

	// ── list_notices ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_notices",
		mcp.WithDescription("List save notifications raised during the session"),
	), s.handleListNotices)

	// ── dismiss_notice ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("dismiss_notice",
		mcp.WithDescription("Dismiss a dismissible notice"),
		mcp.WithNumber("id", mcp.Description("Notice ID"), mcp.Required()),
	), s.handleDismissNotice)
}

type projectInfo struct {
	ID          string `json:"id"`
	Persisted   bool   `json:"persisted"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SaveState   string `json:"saveState"`
	LastSavedAt string `json:"lastSavedAt,omitempty"`
	Address     string `json:"address,omitempty"`
	Elements    int    `json:"elements"`
}

func (s *Server) info() projectInfo {
	id := s.session.Identity()
	meta := s.session.Meta()
	pi := projectInfo{
		ID:          id.String(),
		Persisted:   id.IsPersisted(),
		Name:        meta.Name,
		Description: meta.Description,
		SaveState:   s.session.SaveState().String(),
		Elements:    len(s.session.Elements()),
	}
	if t := s.session.LastSavedAt(); !t.IsZero() {
		pi.LastSavedAt = t.UTC().Format(time.RFC3339)
	}
	if bar, ok := s.session.Locator().(*editor.AddressBar); ok {
		pi.Address = bar.Path()
	}
	return pi
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleProjectInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.info())
}

func (s *Server) handleRenameProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := getString(req.GetArguments(), "name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	s.session.Rename(name)
	return textResult(fmt.Sprintf("Project renamed to %q", name)), nil
}

func (s *Server) handleSetDescription(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, ok := req.GetArguments()["description"].(string)
	if !ok {
		return nil, fmt.Errorf("description is required")
	}
	s.session.SetDescription(desc)
	return textResult("Description updated"), nil
}

func (s *Server) handleSaveProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := s.session.Save(ctx)
	switch {
	case errors.Is(err, autosave.ErrSaveInFlight):
		return textResult("A save is already in progress"), nil
	case err != nil:
		return nil, fmt.Errorf("save project: %w", err)
	}
	return jsonResult(s.info())
}

func (s *Server) handleListNotices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notices := s.session.Notices().List()
	if notices == nil {
		notices = []editor.Notice{}
	}
	return jsonResult(notices)
}

func (s *Server) handleDismissNotice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := req.GetArguments()["id"].(float64)
	if !ok {
		return nil, fmt.Errorf("id is required")
	}
	if !s.session.Notices().Dismiss(int(id)) {
		return nil, fmt.Errorf("notice %d is not dismissible or does not exist", int(id))
	}
	return textResult(fmt.Sprintf("Notice %d dismissed", int(id))), nil
}
