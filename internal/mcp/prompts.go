package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("compose_resume",
		mcp.WithPromptDescription("Guide through laying out a one-page resume on the canvas"),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the person the resume is for"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("role",
			mcp.ArgumentDescription("Target role or headline"),
		),
	), s.handleComposeResumePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("export_resume",
		mcp.WithPromptDescription("Turn structured resume data into a paginated PDF"),
		mcp.WithArgument("output",
			mcp.ArgumentDescription("Where to write the PDF"),
			mcp.RequiredArgument(),
		),
	), s.handleExportResumePrompt)
}

func (s *Server) handleComposeResumePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["name"]
	role := req.Params.Arguments["role"]
	if role == "" {
		role = "their target role"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Compose a resume for %s", name),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Lay out a one-page resume for "%s", aimed at %s. Follow these steps:

1. Call list_elements to see what is already on the canvas
2. Use set_content on the existing title text to set the name, and add a text element for the headline
3. For each of Experience, Education and Projects add a section element (add_element type=section) and set its content to the section title
4. Under each section add text elements for the entries; keep body text at fontSize 14 with set_style
5. Use stack_elements to order header, sections and entries top to bottom
6. Call save_project when the layout looks right, then project_info to confirm the save

Keep everything inside the page: move_element clamps, but overlapping elements are not adjusted.`, name, role),
				},
			},
		},
	}, nil
}

func (s *Server) handleExportResumePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	output := req.Params.Arguments["output"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Export the resume to %s", output),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Export a structured resume as a PDF at %s. Follow these steps:

1. Collect the name, headline, contact details, summary, experiences, education and projects as resume JSON
2. Call paginate_resume to preview how entries are split across pages
3. Call render_resume with the same JSON and output "%s"
4. Report the page count and any overflowing pages; shorten task lists on those pages if needed`, output, output),
				},
			},
		},
	}, nil
}
