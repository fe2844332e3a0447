package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func czech(t *testing.T) *Catalog {
	t.Helper()
	cat, err := NewCzech()
	require.NoError(t, err)
	return cat
}

func TestIsHoliday(t *testing.T) {
	cat := czech(t)

	label, ok := cat.IsHoliday(time.Date(2025, 12, 25, 10, 0, 0, 0, cat.Business.Location))
	assert.True(t, ok)
	assert.Equal(t, "1. svátek vánoční", label)

	_, ok = cat.IsHoliday(time.Date(2025, 6, 3, 10, 0, 0, 0, cat.Business.Location))
	assert.False(t, ok)
}

func TestHolidayMatchesLocalDate(t *testing.T) {
	cat := czech(t)

	// 23:30 UTC on Dec 24 is already Dec 25 in Prague.
	_, ok := cat.IsHoliday(time.Date(2025, 12, 24, 23, 30, 0, 0, time.UTC))
	assert.True(t, ok)
}

func TestIsWeekend(t *testing.T) {
	cat := czech(t)

	assert.True(t, cat.IsWeekend(time.Date(2025, 6, 7, 10, 0, 0, 0, cat.Business.Location)))
	assert.True(t, cat.IsWeekend(time.Date(2025, 6, 8, 10, 0, 0, 0, cat.Business.Location)))
	assert.False(t, cat.IsWeekend(time.Date(2025, 6, 9, 10, 0, 0, 0, cat.Business.Location)))
}

func TestInBusinessHours(t *testing.T) {
	cat := czech(t)
	day := func(hour int) time.Time {
		return time.Date(2025, 6, 3, hour, 0, 0, 0, cat.Business.Location)
	}

	assert.False(t, cat.InBusinessHours(day(7)))
	assert.True(t, cat.InBusinessHours(day(8)))
	assert.True(t, cat.InBusinessHours(day(17)))
	assert.False(t, cat.InBusinessHours(day(18)))
}

func TestConsultationDuration(t *testing.T) {
	cat := czech(t)

	assert.Equal(t, 30, cat.ConsultationDuration("in-person"))
	assert.Equal(t, 20, cat.ConsultationDuration("telemedicine"))
	assert.Equal(t, 15, cat.ConsultationDuration("phone"))
	assert.Equal(t, 10, cat.ConsultationDuration("chat"))
	assert.Equal(t, 30, cat.ConsultationDuration("unknown"))
}

func TestSpecializationAndRegionLookups(t *testing.T) {
	cat := czech(t)

	assert.True(t, cat.IsSpecialization("kardiolog"))
	assert.False(t, cat.IsSpecialization("chiropraktik"))

	assert.True(t, cat.IsRegion("Praha"))
	assert.True(t, cat.IsRegion("Moravskoslezský kraj"))
	assert.False(t, cat.IsRegion("Horní Dolní"))
}

func TestRetentionFor(t *testing.T) {
	cat := czech(t)

	policy, ok := cat.RetentionFor("audit_logs")
	require.True(t, ok)
	assert.Equal(t, 730, policy.Days)
	assert.True(t, policy.AutoDelete)

	_, ok = cat.RetentionFor("unknown_category")
	assert.False(t, ok)
}
