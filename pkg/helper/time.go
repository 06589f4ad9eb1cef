// pkg/helper/time.go
package helper

import "time"

const timestampLayout = "2006-01-02 15:04:05 MST"

// TimeIn converts t to the named IANA zone, falling back to UTC when the zone is unknown
func TimeIn(t time.Time, zone string) time.Time {
	if zone == "" {
		return t.UTC()
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}

// FormatTimestamp formats t in the named zone for human-facing reports.
func FormatTimestamp(t time.Time, zone string) string {
	return TimeIn(t, zone).Format(timestampLayout)
}
