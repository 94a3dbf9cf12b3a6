package domain

// KeyCount is one bucket of an aggregated feedback breakdown.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ChartData carries caller-computed aggregates over enriched feedback. The
// advisory path consumes these as-is; it runs no aggregation queries itself.
type ChartData struct {
	ByTheme     []KeyCount `json:"byTheme"`
	ByPlatform  []KeyCount `json:"byPlatform"`
	ByProduct   []KeyCount `json:"byProduct"`
	BySentiment []KeyCount `json:"bySentiment"`
	ByUrgency   []KeyCount `json:"byUrgency"`
	ByValue     []KeyCount `json:"byValue"`
	TotalCount  int        `json:"totalCount"`
}

type AdviceFilters struct {
	Product   string `json:"product"`
	Platform  string `json:"platform"`
	Country   string `json:"country"`
	TimeRange string `json:"timeRange"`
}

type AdviceRequest struct {
	Filters   AdviceFilters `json:"filters"`
	ChartData ChartData     `json:"chartData"`
}

// AdviceResult is always usable: when the provider path fails the advice
// items come from deterministic templates and Fallback is set.
type AdviceResult struct {
	Advice     []AdviceItem `json:"advice"`
	AIResponse string       `json:"aiResponse,omitempty"`
	Fallback   bool         `json:"fallback,omitempty"`
	Error      string       `json:"error,omitempty"`
}
