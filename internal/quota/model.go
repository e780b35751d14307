package quota

import "time"

// DateKey renders t's local calendar date as the storage key for daily
// usage. Callers resolve it at each operation rather than caching it, so a
// long-running process rolls over to a fresh counter at local midnight.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DailyUsage matches the usage_daily table schema.
type DailyUsage struct {
	CredentialID string    `json:"credential_id"`
	Day          string    `json:"day"`
	Count        int       `json:"count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Window is a point-in-time view of the minute tracker.
type Window struct {
	Count             int `json:"count"`
	SecondsUntilReset int `json:"seconds_until_reset"`
}

// Status is the API response showing current usage against both limits.
type Status struct {
	DailyUsed         int     `json:"daily_used"`
	DailyLimit        int     `json:"daily_limit"`
	DailyRemaining    int     `json:"daily_remaining"`
	DailyPercentUsed  float64 `json:"daily_percent_used"`
	MinuteUsed        int     `json:"minute_used"`
	MinuteLimit       int     `json:"minute_limit"`
	MinuteRemaining   int     `json:"minute_remaining"`
	SecondsUntilReset int     `json:"seconds_until_reset"`
}
