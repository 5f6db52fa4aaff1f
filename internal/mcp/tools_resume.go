package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"resumecanvas/internal/domain"
	"resumecanvas/internal/pagination"
	"resumecanvas/internal/render"
)

func (s *Server) registerResumeTools() {
	// ── paginate_resume ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("paginate_resume",
		mcp.WithDescription("Split structured resume entries into fixed-capacity pages"),
		mcp.WithString("resume",
			mcp.Description("Resume JSON: {name, headline, experiences[], education[], projects[], ...}"),
			mcp.Required(),
		),
		mcp.WithNumber("experience", mcp.Description("Experience entries per page (optional)")),
		mcp.WithNumber("education", mcp.Description("Education entries per page (optional)")),
		mcp.WithNumber("projects", mcp.Description("Project entries per page (optional)")),
	), s.handlePaginateResume)

	// ── render_resume ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_resume",
		mcp.WithDescription("Paginate a structured resume and write it as a PDF file"),
		mcp.WithString("resume", mcp.Description("Resume JSON"), mcp.Required()),
		mcp.WithString("output", mcp.Description("Output PDF path"), mcp.Required()),
	), s.handleRenderResume)
}

func (s *Server) capacities(args map[string]any) pagination.Capacities {
	return pagination.Capacities{
		Experience: int(getFloat(args, "experience", float64(s.caps.Experience))),
		Education:  int(getFloat(args, "education", float64(s.caps.Education))),
		Projects:   int(getFloat(args, "projects", float64(s.caps.Projects))),
	}
}

func resumeArg(args map[string]any) (domain.Resume, error) {
	raw, _ := args["resume"].(string)
	if raw == "" {
		return domain.Resume{}, fmt.Errorf("resume is required")
	}
	var res domain.Resume
	if err := parseJSON(raw, &res); err != nil {
		return domain.Resume{}, fmt.Errorf("invalid resume JSON: %w", err)
	}
	return res, nil
}

func (s *Server) handlePaginateResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	res, err := resumeArg(args)
	if err != nil {
		return nil, err
	}
	pages, err := pagination.PaginateResume(res, s.capacities(args))
	if err != nil {
		return nil, err
	}
	return jsonResult(pages)
}

func (s *Server) handleRenderResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	res, err := resumeArg(args)
	if err != nil {
		return nil, err
	}
	out := getString(args, "output")
	if out == "" {
		return nil, fmt.Errorf("output is required")
	}
	pages, err := pagination.PaginateResume(res, s.caps)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	result, err := render.RenderFile(f, res, pages, s.font, s.log)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return nil, err
	}
	return jsonResult(map[string]any{
		"output":      out,
		"pages":       result.Pages,
		"overflowing": result.Overflowing,
	})
}
