package speech

import "strings"

// CheckAdmission decides whether a generation attempt may proceed, given the
// current counters. Pure: it never mutates a counter; counters move only
// after a confirmed successful synthesis.
//
// Check order is user-visible: empty input is a usage error, not a quota
// error, so it is reported first; the daily limit is checked before the
// minute limit so a user who exhausted both sees the less recoverable reason.
func CheckAdmission(text string, dailyCount, minuteCount int, limits Limits) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Reason: DenyEmptyInput}
	}
	if dailyCount >= limits.Daily {
		return Verdict{Reason: DenyDailyLimit}
	}
	if minuteCount >= limits.Minute {
		return Verdict{Reason: DenyMinuteLimit}
	}
	return Verdict{Allowed: true}
}
