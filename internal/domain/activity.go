package domain

import "time"

// ActivityType enumerates feed entry kinds.
type ActivityType string

const (
	ActivityCreate ActivityType = "Create"
	ActivityUpdate ActivityType = "Update"
	ActivityDelete ActivityType = "Delete"
)

// Activity is a short-lived entry in the dashboard feed.
type Activity struct {
	ID          string
	Title       string
	Description string
	Type        ActivityType
	CreatedAt   time.Time
}
