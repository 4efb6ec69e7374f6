package dataprocessing

import "strings"

// Source tags recording capture-record provenance.
const (
	SourceAgency     = "agency"
	SourceBandingLab = "banding_lab"
)

// CaptureRecord is the canonical capture observation, unified from both
// capture input variants before any shared logic runs. Derived fields are
// filled by the assign step; a record is immutable once harmonized.
type CaptureRecord struct {
	Source    string
	BandID    string
	Species   string
	Year      int
	Month     int
	Day       int
	DateValid bool
	TimeOfDay string // "HH:MM", empty when unknown
	Zone      string
	Site      string
	Method    string
	Outcome   string

	MigrationLabel     string
	MigrationStartYear int
	FiscalDayOfYear    int
	DielPeriod         string
}

// ActivityRecord is one wildlife-survey observation.
type ActivityRecord struct {
	Species   string
	Year      int
	Month     int
	Day       int
	DateValid bool
	TimeOfDay string
	Zone      string
	Count     int

	MigrationLabel     string
	MigrationStartYear int
	FiscalDayOfYear    int
}

// StrikeRecord is one aircraft-strike report row.
type StrikeRecord struct {
	Species   string
	AirportID string
	Year      int
	Month     int
	Day       int
	DateValid bool
	TimeOfDay string
	Damage    string

	MigrationLabel     string
	MigrationStartYear int
	FiscalDayOfYear    int
}

// Damaging reports whether the strike's damage code records aircraft damage.
// The extract uses the FAA convention: blank, "N" and "NONE" mean no damage;
// anything else ("M", "M?", "S", "D") is a damage class.
func (r StrikeRecord) Damaging() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Damage)) {
	case "", "N", "NONE":
		return false
	default:
		return true
	}
}
