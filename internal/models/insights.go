package models

// Insights is the structured answer of the insight service.
type Insights struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}
