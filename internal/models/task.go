package models

// DailyTask is one activity instance on one day. PointsEarned is captured
// when the instance is created and does not follow later activity edits.
type DailyTask struct {
	ID           string `json:"id"`
	ActivityID   string `json:"activity_id"`
	UserID       string `json:"user_id"`
	Date         string `json:"date"` // YYYY-MM-DD format
	Completed    bool   `json:"completed"`
	PointsEarned int    `json:"points_earned"`
}
