package types

// TurnRequest is one chat-turn request against the generative backend. The
// caller owns History and passes the full accumulated dialogue on every
// call; the backend never retains it.
type TurnRequest struct {
	Model       string   `json:"model"`
	System      string   `json:"system,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	Tools       []Tool   `json:"tools,omitempty"`
	History     []Turn   `json:"history"`
}

// TurnResponse is the backend's reply for one request: either final text or
// one-or-more tool calls to resolve before text can be produced. ToolCalls
// preserves the order the backend returned them.
type TurnResponse struct {
	Text      string         `json:"text,omitempty"`
	ToolCalls []FunctionCall `json:"toolCalls,omitempty"`
}

// HasToolCalls reports whether the response carries pending tool calls.
func (r *TurnResponse) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}
