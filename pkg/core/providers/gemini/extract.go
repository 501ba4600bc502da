package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

// extractionTemperature keeps package extraction near-deterministic so the
// JSON reply stays parseable.
const extractionTemperature float32 = 0.1

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractItinerary implements core.ExtractionBackend. It reads the page at
// rawURL through the model's URL context tool and returns the itinerary
// text found there.
func (p *Provider) ExtractItinerary(ctx context.Context, rawURL string) (string, error) {
	u, err := normalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Extract the full travel itinerary details from this URL: %s. "+
		"Return ONLY the raw text of the itinerary found on the page, formatted clearly with days and activities. "+
		"Do not add any conversational text or summaries.", u)
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{URLContext: &genai.URLContext{}}},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.chatModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", core.NewExtractionError("fetch itinerary from url", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", core.NewExtractionError("page yielded no itinerary text", nil)
	}
	return text, nil
}

// ExtractPackages implements core.ExtractionBackend. It researches the
// agency site with search grounding and returns the travel packages it
// advertises.
func (p *Provider) ExtractPackages(ctx context.Context, rawURL string) ([]types.TravelPackage, error) {
	u, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Visit this travel agency website: %s. Identify the distinct travel packages or tours offered. "+
		"For each package, extract a title, a one-sentence description, and the full day-by-day itinerary text. "+
		"Respond with ONLY a JSON array of objects with keys \"title\", \"description\" and \"fullItinerary\". "+
		"Do not wrap the JSON in markdown fences or add commentary.", u)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(extractionTemperature),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.extractionModel, genai.Text(prompt), cfg)
	if err != nil {
		return nil, core.NewExtractionError("research agency site", err)
	}
	return parsePackages(resp.Text())
}

// parsePackages pulls the first JSON array out of a model reply. Grounded
// replies often carry prose or markdown fences around the payload, so the
// array is located by pattern rather than parsed wholesale.
func parsePackages(reply string) ([]types.TravelPackage, error) {
	match := jsonArrayPattern.FindString(reply)
	if match == "" {
		return nil, core.NewExtractionError("reply carried no JSON array", nil)
	}
	var packages []types.TravelPackage
	if err := json.Unmarshal([]byte(match), &packages); err != nil {
		return nil, core.NewExtractionError("decode package list", err)
	}
	if len(packages) == 0 {
		return nil, core.NewExtractionError("no packages found on site", nil)
	}
	return packages, nil
}

// normalizeURL prefixes a scheme when the user typed a bare domain.
func normalizeURL(rawURL string) (string, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return "", core.NewExtractionError("empty url", nil)
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u, nil
}
