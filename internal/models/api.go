package models

// Wire types for the calendar REST API, shared by the HTTP server and the
// remote store.

type UnavailableDate struct {
	Date Day `json:"unavailable_date"`
}

type PersistRequest struct {
	Dates  []Day  `json:"dates"`
	Reason string `json:"reason,omitempty"`
}

type PersistResponse struct {
	Saved int `json:"saved"`
}

// RangeView is a consolidated range annotated for display.
type RangeView struct {
	Start Day    `json:"start"`
	End   Day    `json:"end"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}
