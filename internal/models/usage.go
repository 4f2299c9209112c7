package models

import "time"

// AppUsage is a single day's usage snapshot for one app.
type AppUsage struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Date      time.Time      `json:"date"`
	AppName   string         `json:"app_name"`
	Category  string         `json:"category"`
	TimeSpent int            `json:"time_spent"` // minutes
	OpenCount int            `json:"open_count"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TimeDistribution aggregates one weekday's screen time into broad buckets,
// all values in minutes.
type TimeDistribution struct {
	Day           string `json:"day"`
	Social        int    `json:"social"`
	Productivity  int    `json:"productivity"`
	Entertainment int    `json:"entertainment"`
	Other         int    `json:"other"`
}
