package dataprocessing

import (
	"fmt"
	"strings"
	"time"
)

// captureDateLayouts lists every date layout the field sources are known to
// use, in match order.
var captureDateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"01/02/2006",
	"2-Jan-06",
}

// parseDate tries each known layout against a raw date cell.
func parseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range captureDateLayouts {
		if date, err := time.Parse(layout, trimmed); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", trimmed)
}

// clockLayouts lists the raw time-of-day forms normalized into "HH:MM".
// The bare "1504" form shows up in strike extracts.
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"1504",
	"3:04 PM",
}

// normalizeClock maps a raw time cell onto canonical "HH:MM". An empty cell
// is a valid missing value; a non-empty cell matching no layout reports
// ok=false so the caller can warn with row context.
func normalizeClock(raw string) (clock string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(trimmed)); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}
