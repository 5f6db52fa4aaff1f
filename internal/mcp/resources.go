package mcpserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"resumecanvas/internal/domain"
)

const (
	projectURI  = "resumecanvas://project"
	elementsURI = "resumecanvas://project/elements"
)

func (s *Server) registerResources() {
	// ── resumecanvas://project ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		projectURI,
		"Open Project",
		mcp.WithMIMEType("application/json"),
	), s.handleProjectResource)

	// ── resumecanvas://project/elements ────────────────
	s.mcp.AddResource(mcp.NewResource(
		elementsURI,
		"Canvas Elements",
		mcp.WithMIMEType("application/json"),
	), s.handleElementsResource)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleProjectResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(projectURI, struct {
		Info    projectInfo    `json:"info"`
		Project domain.Project `json:"project"`
	}{s.info(), s.session.Project()})
}

// elementSummary trims an element to what an agent needs to reason about
// layout, leaving out the full style map.
type elementSummary struct {
	ID      string             `json:"id"`
	Type    domain.ElementType `json:"type"`
	Content string             `json:"content,omitempty"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
	ZIndex  int                `json:"zIndex"`
}

func summarizeElement(e domain.Element) elementSummary {
	w, h := e.Size()
	content := e.Content
	if r := []rune(content); len(r) > 120 {
		content = string(r[:120]) + "..."
	}
	return elementSummary{
		ID: e.ID, Type: e.Type, Content: content,
		X: e.Position.X, Y: e.Position.Y, Width: w, Height: h,
		ZIndex: e.ZIndex,
	}
}

func (s *Server) handleElementsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	els := s.session.Elements()
	sort.SliceStable(els, func(i, j int) bool { return els[i].ZIndex < els[j].ZIndex })
	summaries := make([]elementSummary, len(els))
	for i, e := range els {
		summaries[i] = summarizeElement(e)
	}
	return jsonContents(elementsURI, summaries)
}
