package domain

import "time"

// indiaTime is the Asia/Kolkata location. IST has no DST, so the fixed-zone
// fallback is exact when the system tzdata is unavailable.
var indiaTime = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}()

// IndiaTimestamp renders t in the en-IN long form used for
// creationTimestampIndia, e.g. "Saturday, 26 April, 2024 at 3:10:05 pm IST".
func IndiaTimestamp(t time.Time) string {
	return t.In(indiaTime).Format("Monday, 2 January, 2006 at 3:04:05 pm MST")
}

// CreationTimestamp stamps the current wall-clock time from the package
// clock in the India locale.
func CreationTimestamp() string {
	return IndiaTimestamp(clock.Now())
}
