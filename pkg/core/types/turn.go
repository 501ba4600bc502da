// Package types defines the dialogue and itinerary data model shared by the
// conversation core and the backend adapters.
package types

// Role identifies the author of a dialogue turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one piece of a turn's content. Exactly one field is set: plain
// text, a model-issued function call, or a client-supplied function
// response answering one.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall is a structured request from the model asking the client to
// execute a named capability.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries the structured result of one function call back
// to the model, keyed by the call's name.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Turn is one ordered record in the dialogue history. History is
// append-only; turns are never mutated after being recorded.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// TextTurn builds a turn holding a single text part.
func TextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// CallTurn builds a model turn holding the given function calls, preserving
// their order.
func CallTurn(calls []FunctionCall) Turn {
	t := Turn{Role: RoleModel, Parts: make([]Part, 0, len(calls))}
	for i := range calls {
		call := calls[i]
		t.Parts = append(t.Parts, Part{FunctionCall: &call})
	}
	return t
}

// ResponseTurn builds a user turn answering function calls, one response
// part per call, preserving order.
func ResponseTurn(responses []FunctionResponse) Turn {
	t := Turn{Role: RoleUser, Parts: make([]Part, 0, len(responses))}
	for i := range responses {
		resp := responses[i]
		t.Parts = append(t.Parts, Part{FunctionResponse: &resp})
	}
	return t
}

// Text concatenates the text parts of the turn.
func (t Turn) Text() string {
	var out string
	for _, p := range t.Parts {
		out += p.Text
	}
	return out
}
