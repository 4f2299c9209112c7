package models

// RiskLevel grades how much access an app has to sensitive data.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Valid reports whether the risk level is a member of the closed set.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// PrivacyData records the permissions one app holds and the resulting risk.
type PrivacyData struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	AppName     string    `json:"app_name"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Permissions []string  `json:"permissions"`
}

// PrivacyScore is the aggregate exposure score derived from PrivacyData on
// read. Score is 0-100 where higher means more exposed.
type PrivacyScore struct {
	Score              int       `json:"score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	AppsWithHighAccess int       `json:"apps_with_high_access"`
}
