package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Messages[0].Content)
	}
	return tc.Text
}

func TestStatusPrompt(t *testing.T) {
	p := NewStatusPrompt()
	if p.Definition().Name != "board-status" {
		t.Errorf("name = %s", p.Definition().Name)
	}
	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, result), "board_view") {
		t.Error("status prompt should point at board_view")
	}
}

func TestTriagePrompt_EpicArgument(t *testing.T) {
	p := NewTriagePrompt()

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"epic": "connectors"}
	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, result), `epic="connectors"`) {
		t.Errorf("prompt should scope to the epic: %s", promptText(t, result))
	}

	result, _ = p.Handle(context.Background(), mcp.GetPromptRequest{})
	if !strings.Contains(promptText(t, result), "epic `all`") {
		t.Errorf("default epic should be all: %s", promptText(t, result))
	}
}
