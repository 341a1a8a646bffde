package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// TriagePrompt handles the board-triage MCP prompt.
// It walks the backlog of one epic (or all) and proposes priority changes.
type TriagePrompt struct{}

// NewTriagePrompt creates a TriagePrompt.
func NewTriagePrompt() *TriagePrompt {
	return &TriagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TriagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-triage",
		mcp.WithPromptDescription(
			"Review backlog and proposed cards and suggest priority or column changes.",
		),
		mcp.WithArgument("epic",
			mcp.ArgumentDescription("Epic id to focus on (e.g. security-foundation). Default: all epics"),
		),
	)
}

// Handle processes the board-triage prompt request.
func (p *TriagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	epic := "all"
	if args := req.Params.Arguments; args != nil {
		if e, ok := args["epic"]; ok && e != "" {
			epic = e
		}
	}

	return &mcp.GetPromptResult{
		Description: "OpenSpec Board Triage",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please triage my board for epic `%s`.\n\n"+
						"1. Run `board_view` with epic=%q and column=backlog, then again with column=proposed\n"+
						"2. For each card, use `board_card` when you need its artifacts or dependencies\n"+
						"3. Propose priority changes and column moves as a table, with a one-line reason each\n"+
						"4. Only apply them with `board_update` or `board_move` after I confirm",
					epic, epic,
				)),
			},
		},
	}, nil
}
