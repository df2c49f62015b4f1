package models

// Category groups activities. UserID is "default" for built-in categories.
type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"` // hex, e.g. "#3b82f6"
}
