package ai

// EventSummary is the structured result the summarization oracle is asked
// to produce for one event cluster.
type EventSummary struct {
	// Headline is a short, descriptive title for the event.
	Headline string `json:"headline"`

	// Summary is a 3-4 sentence neutral account of the event.
	Summary string `json:"summary"`

	// Tags is an ordered list of 3-5 topical keywords.
	Tags []string `json:"tags"`
}
