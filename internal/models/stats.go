package models

// DashboardStats is the headline card data for the dashboard, assembled on
// read from usage, privacy and goal data. Never stored.
type DashboardStats struct {
	ScreenTime    ScreenTimeStat    `json:"screen_time"`
	AppsUsed      AppsUsedStat      `json:"apps_used"`
	PrivacyRisk   PrivacyRiskStat   `json:"privacy_risk"`
	GoalsProgress GoalsProgressStat `json:"goals_progress"`
}

// ScreenTimeStat is total screen time formatted for display, e.g. "5h 24m".
type ScreenTimeStat struct {
	Value  string `json:"value"`
	Change int    `json:"change"` // percent vs previous period
}

// AppsUsedStat counts distinct apps used.
type AppsUsedStat struct {
	Value  int `json:"value"`
	Change int `json:"change"`
}

// PrivacyRiskStat mirrors PrivacyScore in card form, e.g. "65/100".
type PrivacyRiskStat struct {
	Value string `json:"value"`
	Score int    `json:"score"`
	Level string `json:"level"`
}

// GoalsProgressStat summarizes completed vs total goals.
type GoalsProgressStat struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Change    int `json:"change"`
}
