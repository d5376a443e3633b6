package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// Calendar turns receipt instants into the civil date of the operating
// location. All facilities share one location.
type Calendar struct {
	loc *time.Location
}

// NewCalendar accepts a fixed offset such as "+09:00" or an IANA zone name.
func NewCalendar(zone string) (*Calendar, error) {
	if zone == "" {
		zone = "+09:00"
	}

	if m := offsetPattern.FindStringSubmatch(zone); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		if hours > 14 || minutes > 59 {
			return nil, fmt.Errorf("invalid timezone offset %q", zone)
		}
		seconds := hours*3600 + minutes*60
		if m[1] == "-" {
			seconds = -seconds
		}
		return &Calendar{loc: time.FixedZone("UTC"+zone, seconds)}, nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	return &Calendar{loc: loc}, nil
}

// DateOf returns the civil date of t in the operating location, expressed
// as midnight UTC so it compares cleanly with DATE columns.
func (c *Calendar) DateOf(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}
