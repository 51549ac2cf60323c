package node

import (
	"fmt"
	"time"
)

// Category is a freshness bucket. Values are ordered from freshest to
// coldest, with CategoryUnknown sorting before all of them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFresh
	CategoryFewHours
	CategoryHalfDay
	CategoryRecent
	CategoryWeek
	CategoryCold
)

// Thresholds used by Classify. Day thresholds compare whole days.
const (
	FreshSeconds    = 3600
	FewHoursSeconds = 3 * 3600
	HalfDaySeconds  = 12 * 3600
	RecentDays      = 4
	WeekDays        = 8
)

// NotReported is the age shown for nodes without a lastHeard timestamp.
const NotReported = "Not Reported"

var categoryNames = map[Category]string{
	CategoryUnknown:  "Unknown",
	CategoryFresh:    "Fresh",
	CategoryFewHours: "Few-hours",
	CategoryHalfDay:  "Half-day",
	CategoryRecent:   "Recent",
	CategoryWeek:     "Week",
	CategoryCold:     "Cold",
}

var categoryColors = map[Category]string{
	CategoryUnknown:  "black",
	CategoryFresh:    "green",
	CategoryFewHours: "yellow",
	CategoryHalfDay:  "orange",
	CategoryRecent:   "red",
	CategoryWeek:     "purple",
	CategoryCold:     "blue",
}

// String returns the category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Color returns the colour word for the category ("green", "black", ...).
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "black"
}

// Freshness is how long ago a node was last heard, derived at render time.
type Freshness struct {
	Category Category
	// Known is false when the node never reported a lastHeard timestamp;
	// the age fields are then zero and meaningless.
	Known        bool
	HeardAt      time.Time
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	TotalSeconds int64
}

// Classify buckets a lastHeard unix timestamp relative to now. Each check
// overrides the previous one, so the narrowest matching window wins.
func Classify(lastHeard *int64, now time.Time) Freshness {
	if lastHeard == nil || *lastHeard == 0 {
		return Freshness{Category: CategoryUnknown}
	}

	total := now.Unix() - *lastHeard
	if *lastHeard < 0 && total < now.Unix() {
		// overflowed
		return Freshness{Category: CategoryUnknown}
	}
	if total < 0 {
		total = 0
	}
	d, h, m, s := SplitDHMS(total)

	f := Freshness{
		Known:        true,
		HeardAt:      time.Unix(*lastHeard, 0),
		Days:         d,
		Hours:        h,
		Minutes:      m,
		Seconds:      s,
		TotalSeconds: total,
	}

	f.Category = CategoryCold
	if d < WeekDays {
		f.Category = CategoryWeek
	}
	if d < RecentDays {
		f.Category = CategoryRecent
	}
	if total < HalfDaySeconds {
		f.Category = CategoryHalfDay
	}
	if total < FewHoursSeconds {
		f.Category = CategoryFewHours
	}
	if total < FreshSeconds {
		f.Category = CategoryFresh
	}
	return f
}

// Age renders the age as "Xd Yh Zm Ws", or NotReported.
func (f Freshness) Age() string {
	if !f.Known {
		return NotReported
	}
	return fmt.Sprintf("%dd %dh %dm %ds", f.Days, f.Hours, f.Minutes, f.Seconds)
}

// SplitDHMS breaks a number of seconds into days, hours, minutes and
// seconds by truncating division.
func SplitDHMS(seconds int64) (days, hours, minutes, secs int64) {
	days = seconds / 86400
	rem := seconds % 86400
	hours = rem / 3600
	rem %= 3600
	minutes = rem / 60
	secs = rem % 60
	return days, hours, minutes, secs
}

// FormatDHMS renders seconds as "Xd Yh Zm Ws".
func FormatDHMS(seconds int64) string {
	d, h, m, s := SplitDHMS(seconds)
	return fmt.Sprintf("%dd %dh %dm %ds", d, h, m, s)
}
