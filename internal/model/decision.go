package model

// SupportingHit is a search hit reported alongside a decision.
type SupportingHit struct {
	RouteName string  `json:"route_name"`
	Utterance string  `json:"utterance"`
	Score     float64 `json:"score"`
}

// RouteDecision is the outcome of routing one query.
// An empty RouteName means no route reached its threshold.
type RouteDecision struct {
	Query      string
	RouteName  string
	Confidence float64 // Aggregated score of BestRoute
	Threshold  float64 // Threshold applied to BestRoute
	BestRoute  string  // Highest scoring route, even when below threshold
	Hits       []SupportingHit
}

// Matched reports whether a route was selected.
func (d RouteDecision) Matched() bool {
	return d.RouteName != ""
}

// HasConfidence is false when the search returned nothing.
func (d RouteDecision) HasConfidence() bool {
	return d.BestRoute != ""
}
