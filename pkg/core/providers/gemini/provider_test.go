package gemini

import (
	"context"
	"testing"

	"google.golang.org/genai"

	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{APIKey: "   "})
	if err == nil {
		t.Fatal("expected error for blank API key")
	}
	if core.TypeOf(err) != core.ErrInitialization {
		t.Fatalf("error type = %q, want %q", core.TypeOf(err), core.ErrInitialization)
	}
}

func TestToContents_MapsAllPartKinds(t *testing.T) {
	history := []types.Turn{
		types.TextTurn(types.RoleUser, "plan my trip"),
		types.CallTurn([]types.FunctionCall{
			{Name: "notifyHotel", Args: map[string]any{"request": "late checkout"}},
		}),
		types.ResponseTurn([]types.FunctionResponse{
			{Name: "notifyHotel", Response: map[string]any{"success": true}},
		}),
	}

	contents := toContents(history)
	if len(contents) != 3 {
		t.Fatalf("len(contents) = %d, want 3", len(contents))
	}

	if contents[0].Role != "user" || contents[0].Parts[0].Text != "plan my trip" {
		t.Errorf("text turn mapped to %+v", contents[0])
	}

	call := contents[1].Parts[0].FunctionCall
	if contents[1].Role != "model" || call == nil || call.Name != "notifyHotel" {
		t.Fatalf("call turn mapped to %+v", contents[1])
	}
	if call.Args["request"] != "late checkout" {
		t.Errorf("call args = %v", call.Args)
	}

	resp := contents[2].Parts[0].FunctionResponse
	if contents[2].Role != "user" || resp == nil || resp.Name != "notifyHotel" {
		t.Fatalf("response turn mapped to %+v", contents[2])
	}
	if resp.Response["success"] != true {
		t.Errorf("response payload = %v", resp.Response)
	}
}

func TestToGenerateConfig_CarriesConstraints(t *testing.T) {
	temp := float32(0.2)
	req := &types.TurnRequest{
		System:      "be helpful",
		Temperature: &temp,
		Tools: []types.Tool{{
			Name:        "getBookingLink",
			Description: "Generates a booking link",
			Parameters: types.ObjectSchema(map[string]string{
				"activityName": "Name of the activity",
			}, "activityName"),
		}},
	}

	cfg := toGenerateConfig(req)
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Errorf("system instruction = %+v", cfg.SystemInstruction)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.Temperature)
	}
	if len(cfg.Tools) != 1 || len(cfg.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("tools = %+v", cfg.Tools)
	}

	decl := cfg.Tools[0].FunctionDeclarations[0]
	if decl.Name != "getBookingLink" {
		t.Errorf("declaration name = %q", decl.Name)
	}
	if decl.Parameters.Type != genai.TypeObject {
		t.Errorf("parameters type = %q", decl.Parameters.Type)
	}
	prop := decl.Parameters.Properties["activityName"]
	if prop == nil || prop.Type != genai.TypeString {
		t.Errorf("activityName property = %+v", prop)
	}
	if len(decl.Parameters.Required) != 1 || decl.Parameters.Required[0] != "activityName" {
		t.Errorf("required = %v", decl.Parameters.Required)
	}
}

func TestFromResponse_PreservesCallOrder(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					{Text: "On it."},
					{FunctionCall: &genai.FunctionCall{Name: "notifyHotel", Args: map[string]any{"request": "spa"}}},
					{FunctionCall: &genai.FunctionCall{Name: "getBookingLink", Args: map[string]any{"activityName": "City Tour"}}},
				},
			},
		}},
	}

	out := fromResponse(resp)
	if out.Text != "On it." {
		t.Errorf("text = %q", out.Text)
	}
	if len(out.ToolCalls) != 2 {
		t.Fatalf("len(ToolCalls) = %d, want 2", len(out.ToolCalls))
	}
	if out.ToolCalls[0].Name != "notifyHotel" || out.ToolCalls[1].Name != "getBookingLink" {
		t.Errorf("call order = %q, %q", out.ToolCalls[0].Name, out.ToolCalls[1].Name)
	}
}

func TestParsePackages(t *testing.T) {
	reply := "Here is what I found:\n```json\n[{\"title\":\"Alpine Escape\",\"description\":\"A week in the Alps.\",\"fullItinerary\":\"Day 1: Arrive\"}]\n```\nLet me know if you need more."

	packages, err := parsePackages(reply)
	if err != nil {
		t.Fatalf("parsePackages: %v", err)
	}
	if len(packages) != 1 {
		t.Fatalf("len(packages) = %d, want 1", len(packages))
	}
	if packages[0].Title != "Alpine Escape" || packages[0].FullItinerary != "Day 1: Arrive" {
		t.Errorf("package = %+v", packages[0])
	}
}

func TestParsePackages_Errors(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no array", "I could not find any packages on that site."},
		{"malformed json", "[{\"title\": }]"},
		{"empty array", "[]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsePackages(tc.reply)
			if core.TypeOf(err) != core.ErrExtraction {
				t.Fatalf("error = %v, want extraction error", err)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"example.com/tours", "https://example.com/tours"},
		{"  wanderlust.travel  ", "https://wanderlust.travel"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
	}
	for _, tc := range cases {
		got, err := normalizeURL(tc.in)
		if err != nil {
			t.Fatalf("normalizeURL(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := normalizeURL("   "); core.TypeOf(err) != core.ErrExtraction {
		t.Errorf("blank url error = %v, want extraction error", err)
	}
}
