// Package migration derives the study's Sept 1 - Aug 31 migration calendar
// from observation dates.
//
// A migration period starting in year Y covers Sept 1 of Y through Aug 31 of
// Y+1 and is labeled "Y-Y+1". The fiscal day-of-year counts 1-based from
// Sept 1 in a fixed non-leap reference year so seasonal timing is comparable
// across calendar years. Feb 29 is not representable in the reference year
// and maps to the Feb 28 ordinal; a known limitation of the convention,
// never a silent corruption of other dates.
package migration

import (
	"fmt"

	"raptorcli/internal/errors"
)

// MinStartYear is the earliest migration start year kept in any output. The
// study window opens with the 2016-2017 period; earlier records are always
// dropped. Fixed historical cutoff, not configurable.
const MinStartYear = 2016

// daysBeforeMonth[m-1] counts the days preceding month m in the non-leap
// reference year.
var daysBeforeMonth = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// daysInMonth[m-1] is the length of month m in the non-leap reference year.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// StartYear returns the year in which the migration period containing the
// given month begins: the calendar year itself from September on, the
// previous year otherwise.
func StartYear(month, year int) int {
	if month >= 9 {
		return year
	}
	return year - 1
}

// Label formats the migration period containing (month, year) as
// "start-start+1", e.g. "2020-2021".
func Label(month, year int) string {
	start := StartYear(month, year)
	return fmt.Sprintf("%d-%d", start, start+1)
}

// Included reports whether a migration start year falls inside the study
// window.
func Included(startYear int) bool {
	return startYear >= MinStartYear
}

// FiscalDayOfYear returns the 1-based day offset from Sept 1 in the non-leap
// reference year, always in [1, 365]: Sept 1 is day 1, Aug 31 is day 365.
// Feb 29 maps to the Feb 28 ordinal. Values outside the reference calendar
// return a validation error.
func FiscalDayOfYear(month, day int) (int, error) {
	if month < 1 || month > 12 {
		return 0, errors.NewValidationError(fmt.Sprintf("month %d out of range", month))
	}
	if month == 2 && day == 29 {
		day = 28 // not representable in the non-leap reference year
	}
	if day < 1 || day > daysInMonth[month-1] {
		return 0, errors.NewValidationError(fmt.Sprintf("day %d out of range for month %d", day, month))
	}

	ordinal := daysBeforeMonth[month-1] + day
	fiscal := ordinal - daysBeforeMonth[8]
	if fiscal <= 0 {
		fiscal += 365
	}
	return fiscal, nil
}
