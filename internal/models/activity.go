package models

// Activity is a template entry that recurs every day.
type Activity struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
}
