package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"resumecanvas/internal/canvas"
	"resumecanvas/internal/domain"
)

func (s *Server) registerElementTools() {
	// ── list_elements ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List the elements on the canvas in paint order, optionally filtered by type"),
		mcp.WithString("type", mcp.Description("Filter by element type (optional)")),
	), s.handleListElements)

	// ── add_element ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add an element to the canvas. Position is auto-calculated if not provided."),
		mcp.WithString("type",
			mcp.Description("Element type: text, image, section, icon, shape"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithString("content", mcp.Description("Initial text, image URL or glyph (optional)")),
	), s.handleAddElement)

	// ── move_element ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element. The position is clamped to the page."),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveElement)

	// ── set_style ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_style",
		mcp.WithDescription("Set one style property of an element, e.g. width, height, fontSize, color, backgroundColor"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("property", mcp.Description("Style property name"), mcp.Required()),
		mcp.WithString("value", mcp.Description("Value; numbers are stored as numbers"), mcp.Required()),
	), s.handleSetStyle)

	// ── set_content ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_content",
		mcp.WithDescription("Replace the text of a text or section element, the URL of an image, or the glyph of an icon"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New content"), mcp.Required()),
	), s.handleSetContent)

	// ── raise_element ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("raise_element",
		mcp.WithDescription("Bring an element in front of every other element"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
	), s.handleRaiseElement)

	// ── delete_element (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_element",
		mcp.WithDescription("Delete an element from the canvas"),
		mcp.WithString("elementId", mcp.Description("Element ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElement)

	// ── stack_elements ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("stack_elements",
		mcp.WithDescription("Lay elements out top to bottom in the given order"),
		mcp.WithString("elementIds", mcp.Description("Comma-separated element IDs"), mcp.Required()),
		mcp.WithNumber("startX", mcp.Description("Left edge (default 48)")),
		mcp.WithNumber("startY", mcp.Description("Top of the first element (default 48)")),
	), s.handleStackElements)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := domain.ElementType(getString(req.GetArguments(), "type"))
	els := s.session.Elements()
	sort.SliceStable(els, func(i, j int) bool { return els[i].ZIndex < els[j].ZIndex })

	out := make([]domain.Element, 0, len(els))
	for _, e := range els {
		if filter == "" || e.Type == filter {
			out = append(out, e)
		}
	}
	return jsonResult(out)
}

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	t := domain.ElementType(getString(args, "type"))
	if !t.Valid() {
		return nil, fmt.Errorf("unknown element type %q", t)
	}

	var added domain.Element
	s.session.Do(func(st *canvas.Store) {
		existing := st.Elements()
		e := st.AddElement(t)

		x, hasX := args["x"].(float64)
		y, hasY := args["y"].(float64)
		pos := domain.Position{X: x, Y: y}
		if !hasX || !hasY {
			w, h := e.Size()
			pos = s.layout.NextPosition(existing, w, h)
		}
		st.MoveElement(e.ID, pos)

		if content, ok := args["content"].(string); ok && content != "" {
			st.SetContent(e.ID, content)
		}
		added, _ = st.Element(e.ID)
	})
	if added.ID == "" {
		return nil, fmt.Errorf("session is closed")
	}
	return jsonResult(added)
}

// withElement runs fn under the session lock when elementId names an
// existing element.
func (s *Server) withElement(args map[string]any, fn func(st *canvas.Store, e domain.Element)) (domain.Element, error) {
	id := getString(args, "elementId")
	if id == "" {
		return domain.Element{}, fmt.Errorf("elementId is required")
	}
	var (
		found bool
		after domain.Element
	)
	s.session.Do(func(st *canvas.Store) {
		e, ok := st.Element(id)
		if !ok {
			return
		}
		found = true
		fn(st, e)
		after, _ = st.Element(id)
	})
	if !found {
		return domain.Element{}, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	return after, nil
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if !hasX || !hasY {
		return nil, fmt.Errorf("x and y are required")
	}
	e, err := s.withElement(args, func(st *canvas.Store, e domain.Element) {
		st.MoveElement(e.ID, domain.Position{X: x, Y: y})
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(e)
}

func (s *Server) handleSetStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	property := getString(args, "property")
	raw, ok := args["value"].(string)
	if property == "" || !ok {
		return nil, fmt.Errorf("property and value are required")
	}
	e, err := s.withElement(args, func(st *canvas.Store, e domain.Element) {
		st.UpdateElementStyle(e.ID, property, styleValue(raw))
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(e)
}

func (s *Server) handleSetContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	content, ok := args["content"].(string)
	if !ok {
		return nil, fmt.Errorf("content is required")
	}
	e, err := s.withElement(args, func(st *canvas.Store, e domain.Element) {
		if e.Type.TextBearing() {
			st.UpdateTextContent(e.ID, content)
			return
		}
		st.SetContent(e.ID, content)
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(e)
}

func (s *Server) handleRaiseElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := s.withElement(req.GetArguments(), func(st *canvas.Store, e domain.Element) {
		st.RaiseToFront(e.ID)
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(e)
}

func (s *Server) handleDeleteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var id string
	_, err := s.withElement(req.GetArguments(), func(st *canvas.Store, e domain.Element) {
		id = e.ID
		st.DeleteElement(e.ID)
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Element %s deleted", id)), nil
}

func (s *Server) handleStackElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ids := splitIDs(getString(args, "elementIds"))
	if len(ids) == 0 {
		return nil, fmt.Errorf("elementIds is required")
	}
	startX := getFloat(args, "startX", 48)
	startY := getFloat(args, "startY", 48)

	var (
		missing []string
		placed  []domain.Element
	)
	s.session.Do(func(st *canvas.Store) {
		var els []domain.Element
		for _, id := range ids {
			e, ok := st.Element(id)
			if !ok {
				missing = append(missing, id)
				continue
			}
			els = append(els, e)
		}
		if len(missing) > 0 {
			return
		}
		for id, pos := range s.layout.Stack(els, startX, startY) {
			st.MoveElement(id, pos)
		}
		for _, id := range ids {
			e, _ := st.Element(id)
			placed = append(placed, e)
		}
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown elements: %s", strings.Join(missing, ", "))
	}
	return jsonResult(placed)
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
