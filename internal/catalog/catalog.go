// Package catalog holds the immutable reference data the booking rules run
// against: the statutory holiday calendar, health-insurance providers,
// consultation durations, business hours and GDPR retention policies. The
// data is assembled once at process start and injected, so tests can swap
// in fixture calendars.
package catalog

import (
	"time"
)

// Catalog bundles all lookup tables.
type Catalog struct {
	Holidays           map[string]string
	InsuranceProviders map[string]string
	Durations          map[string]int
	DefaultDuration    int
	Specializations    []string
	Regions            []string
	Business           BusinessHours
	Retention          []RetentionPolicy
}

// BusinessHours describes the bookable window. OpenHour is inclusive,
// CloseHour exclusive, both in Location's wall clock.
type BusinessHours struct {
	OpenHour  int
	CloseHour int
	Location  *time.Location
}

// RetentionPolicy governs how long one data category is kept.
type RetentionPolicy struct {
	DataType   string
	Days       int
	AutoDelete bool
	LegalBasis string
}

// IsHoliday looks up the calendar date of t in the holiday table and
// returns its label when present.
func (c *Catalog) IsHoliday(t time.Time) (string, bool) {
	label, ok := c.Holidays[t.In(c.Business.Location).Format("2006-01-02")]
	return label, ok
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func (c *Catalog) IsWeekend(t time.Time) bool {
	wd := t.In(c.Business.Location).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// InBusinessHours reports whether the local hour of t is inside the
// bookable window.
func (c *Catalog) InBusinessHours(t time.Time) bool {
	h := t.In(c.Business.Location).Hour()
	return h >= c.Business.OpenHour && h < c.Business.CloseHour
}

// ConsultationDuration returns the default duration in minutes for the
// consultation type, falling back to the in-person default for unknown
// types.
func (c *Catalog) ConsultationDuration(consultationType string) int {
	if d, ok := c.Durations[consultationType]; ok {
		return d
	}
	return c.DefaultDuration
}

// InsuranceProviderName resolves a 3-digit insurer code to its display
// name.
func (c *Catalog) InsuranceProviderName(code string) (string, bool) {
	name, ok := c.InsuranceProviders[code]
	return name, ok
}

// IsSpecialization reports whether s is a known medical specialization.
func (c *Catalog) IsSpecialization(s string) bool {
	return contains(c.Specializations, s)
}

// IsRegion reports whether r is a known Czech region.
func (c *Catalog) IsRegion(r string) bool {
	return contains(c.Regions, r)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// RetentionFor returns the policy for a data category, if one exists.
func (c *Catalog) RetentionFor(dataType string) (RetentionPolicy, bool) {
	for _, p := range c.Retention {
		if p.DataType == dataType {
			return p, true
		}
	}
	return RetentionPolicy{}, false
}
