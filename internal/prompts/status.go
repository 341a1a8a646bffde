// Package prompts implements the MCP prompts of the board.
//
// Prompts are user-triggered workflows (like slash commands) that tell the
// assistant which board tools to call and how to present the result.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the board-status MCP prompt.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-status",
		mcp.WithPromptDescription(
			"Summarize the OpenSpec board: what is in flight, what is blocked "+
				"on unfinished dependencies, and what to pick up next.",
		),
	)
}

// Handle processes the board-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "OpenSpec Board Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `board_view` to load the current board.\n\n" +
						"Then:\n" +
						"1. Give the card count per column\n" +
						"2. List the in-progress cards with their priority\n" +
						"3. Call out every card waiting on a dependency that is not done\n" +
						"4. Suggest the next card to pick up, preferring critical and high priority backlog items with no open dependencies",
				),
			},
		},
	}, nil
}
