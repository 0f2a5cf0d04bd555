package models

// EventRevenue is the derived collection figure for one event.
type EventRevenue struct {
	Title  string `json:"title"`
	Count  int    `json:"count"`
	Amount int    `json:"amount"`
}

// RevenueSummary is recomputed from participations and event pricing on
// every read. Nothing here is stored.
type RevenueSummary struct {
	Total   int                     `json:"total"`
	ByEvent map[string]EventRevenue `json:"byEvent"`
}

// VisitSummary reports site visit counters kept outside the relational store.
type VisitSummary struct {
	Total  int64        `json:"total"`
	ByDate []VisitCount `json:"byDate"`
}

// VisitCount is one day's visit tally.
type VisitCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
