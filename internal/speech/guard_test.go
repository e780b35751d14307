package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testLimits = Limits{Daily: 1500, Minute: 15}

func TestCheckAdmission_Allowed(t *testing.T) {
	v := CheckAdmission("hello world", 0, 0, testLimits)
	assert.True(t, v.Allowed)
	assert.Empty(t, v.Reason)
}

func TestCheckAdmission_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		v := CheckAdmission(text, 0, 0, testLimits)
		assert.False(t, v.Allowed)
		assert.Equal(t, DenyEmptyInput, v.Reason)
	}
}

func TestCheckAdmission_EmptyInputReportedBeforeQuota(t *testing.T) {
	// Both limits exhausted, but empty text is still the reported reason.
	v := CheckAdmission("  ", 1500, 15, testLimits)
	assert.Equal(t, DenyEmptyInput, v.Reason)
}

func TestCheckAdmission_DailyLimit(t *testing.T) {
	v := CheckAdmission("hello", 1500, 0, testLimits)
	assert.False(t, v.Allowed)
	assert.Equal(t, DenyDailyLimit, v.Reason)

	// Over the limit behaves the same as at the limit.
	v = CheckAdmission("hello", 2000, 0, testLimits)
	assert.Equal(t, DenyDailyLimit, v.Reason)
}

func TestCheckAdmission_MinuteLimit(t *testing.T) {
	v := CheckAdmission("hello", 0, 15, testLimits)
	assert.False(t, v.Allowed)
	assert.Equal(t, DenyMinuteLimit, v.Reason)
}

func TestCheckAdmission_DailyCheckedBeforeMinute(t *testing.T) {
	v := CheckAdmission("hello", 1500, 15, testLimits)
	assert.Equal(t, DenyDailyLimit, v.Reason)
}

func TestCheckAdmission_LastSlot(t *testing.T) {
	// One below each limit is still admissible.
	v := CheckAdmission("hello", 1499, 14, testLimits)
	assert.True(t, v.Allowed)
}

func TestCheckAdmission_Pure(t *testing.T) {
	// Repeated calls with the same counters always yield the same verdict;
	// the guard never moves a counter itself.
	for i := 0; i < 5; i++ {
		v := CheckAdmission("hello", 10, 5, testLimits)
		assert.True(t, v.Allowed)
	}
}

func TestDenyReason_Message(t *testing.T) {
	assert.Equal(t, "text is empty", DenyEmptyInput.Message())
	assert.Contains(t, DenyDailyLimit.Message(), "daily")
	assert.Contains(t, DenyMinuteLimit.Message(), "minute")
}
