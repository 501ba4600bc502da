package gemini

import (
	"google.golang.org/genai"

	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

func fromResponse(resp *genai.GenerateContentResponse) *types.TurnResponse {
	out := &types.TurnResponse{Text: resp.Text()}
	for _, call := range resp.FunctionCalls() {
		out.ToolCalls = append(out.ToolCalls, types.FunctionCall{
			Name: call.Name,
			Args: call.Args,
		})
	}
	return out
}
