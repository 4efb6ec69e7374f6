package migration

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// Diel period labels. Brackets are half-open: [civil dawn, sunrise) is Dawn,
// [sunrise, sunset) is Day, [sunset, civil dusk) is Dusk, everything else is
// Night.
const (
	DielDawn  = "Dawn"
	DielDay   = "Day"
	DielDusk  = "Dusk"
	DielNight = "Night"
)

// Site describes one study location for solar calculations.
type Site struct {
	Code      string
	Latitude  float64
	Longitude float64
	Elevation float64
	Location  *time.Location
}

// SunTimes holds the solar events bracketing the diel periods for one site
// and date, in the site's local time.
type SunTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// DielClassifier buckets observation times into Dawn, Day, Dusk and Night
// using solar geometry for each study site. Sun events are cached per site
// and date; field logs repeat the same handful of dates heavily.
type DielClassifier struct {
	mu     sync.RWMutex
	sites  map[string]Site
	cache  map[string]SunTimes
	warned map[string]bool
	logger *slog.Logger
}

// NewDielClassifier creates a classifier for the given study sites. Site
// codes are matched case-insensitively. A nil location on a site falls back
// to UTC.
func NewDielClassifier(sites []Site, logger *slog.Logger) *DielClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	byCode := make(map[string]Site, len(sites))
	for _, site := range sites {
		if site.Location == nil {
			site.Location = time.UTC
		}
		byCode[strings.ToUpper(strings.TrimSpace(site.Code))] = site
	}
	return &DielClassifier{
		sites:  byCode,
		cache:  make(map[string]SunTimes),
		warned: make(map[string]bool),
		logger: logger,
	}
}

// Classify buckets an "HH:MM" observation time at a site into a diel period.
// Empty or unparseable clocks, unknown sites, and failed solar calculations
// all yield an empty period; the record itself stays in the dataset.
func (c *DielClassifier) Classify(siteCode string, year, month, day int, clock string) string {
	if strings.TrimSpace(clock) == "" {
		return ""
	}

	site, ok := c.lookupSite(siteCode)
	if !ok {
		c.warnUnknownSite(siteCode)
		return ""
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		c.logger.Warn("Unparseable observation time, diel period left empty",
			slog.String("time", clock),
			slog.String("site", site.Code))
		return ""
	}

	sun, err := c.SunTimesFor(site, year, month, day)
	if err != nil {
		c.logger.Warn("Sun event calculation failed, diel period left empty",
			slog.String("site", site.Code),
			slog.String("date", fmt.Sprintf("%04d-%02d-%02d", year, month, day)),
			slog.String("error", err.Error()))
		return ""
	}

	at := time.Date(year, time.Month(month), day, hour, minute, 0, 0, site.Location)
	return bracket(at, sun)
}

// SunTimesFor returns the solar events for a site and date, computing and
// caching them on first use.
func (c *DielClassifier) SunTimesFor(site Site, year, month, day int) (SunTimes, error) {
	key := fmt.Sprintf("%s:%04d-%02d-%02d", strings.ToUpper(site.Code), year, month, day)

	c.mu.RLock()
	sun, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return sun, nil
	}

	observer := astral.Observer{
		Latitude:  site.Latitude,
		Longitude: site.Longitude,
		Elevation: site.Elevation,
	}
	// Noon anchors the calendar date regardless of timezone offset.
	date := time.Date(year, time.Month(month), day, 12, 0, 0, 0, site.Location)

	civilDawn, err := astral.Dawn(observer, date, astral.DepressionCivil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}
	sunrise, err := astral.Sunrise(observer, date)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}
	sunset, err := astral.Sunset(observer, date)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}
	civilDusk, err := astral.Dusk(observer, date, astral.DepressionCivil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	sun = SunTimes{
		CivilDawn: civilDawn.In(site.Location),
		Sunrise:   sunrise.In(site.Location),
		Sunset:    sunset.In(site.Location),
		CivilDusk: civilDusk.In(site.Location),
	}

	c.mu.Lock()
	c.cache[key] = sun
	c.mu.Unlock()

	return sun, nil
}

func (c *DielClassifier) lookupSite(code string) (Site, bool) {
	site, ok := c.sites[strings.ToUpper(strings.TrimSpace(code))]
	return site, ok
}

// warnUnknownSite logs once per distinct unknown site code so a single bad
// site column cannot flood the run log.
func (c *DielClassifier) warnUnknownSite(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warned[code] {
		return
	}
	c.warned[code] = true
	c.logger.Warn("Unknown site code, diel period left empty", slog.String("site", code))
}

// bracket assigns an instant to its half-open diel bracket.
func bracket(at time.Time, sun SunTimes) string {
	switch {
	case !at.Before(sun.CivilDawn) && at.Before(sun.Sunrise):
		return DielDawn
	case !at.Before(sun.Sunrise) && at.Before(sun.Sunset):
		return DielDay
	case !at.Before(sun.Sunset) && at.Before(sun.CivilDusk):
		return DielDusk
	default:
		return DielNight
	}
}

// parseClock parses an "HH:MM" clock string, tolerating seconds.
func parseClock(clock string) (hour, minute int, err error) {
	trimmed := strings.TrimSpace(clock)
	t, err := time.Parse("15:04", trimmed)
	if err != nil {
		t, err = time.Parse("15:04:05", trimmed)
		if err != nil {
			return 0, 0, err
		}
	}
	return t.Hour(), t.Minute(), nil
}
