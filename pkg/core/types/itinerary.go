package types

import "strings"

// ItineraryContext is the immutable grounding context for one session: the
// free-form itinerary text plus the client's display name. Never mutated
// after the session starts.
type ItineraryContext struct {
	Content    string `json:"content"`
	ClientName string `json:"clientName"`
}

// MinItineraryLength is the minimum itinerary text length considered usable.
const MinItineraryLength = 10

// Ready reports whether the context is complete enough to start a session.
func (c ItineraryContext) Ready() bool {
	return len(strings.TrimSpace(c.Content)) > MinItineraryLength &&
		strings.TrimSpace(c.ClientName) != ""
}

// TravelPackage is one pre-built trip extracted from a travel website.
type TravelPackage struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	FullItinerary string `json:"fullItinerary"`
}
