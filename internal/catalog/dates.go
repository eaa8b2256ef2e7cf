package catalog

import "time"

const DateLayout = "2006-01-02"

// RollToFuture moves a date that has already passed forward by one year.
// Unparseable dates are returned unchanged.
func RollToFuture(date string, now time.Time) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	if d.Before(startOfDay(now)) {
		return d.AddDate(1, 0, 0).Format(DateLayout)
	}
	return date
}

type DateRange struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// QuickRanges are the preset date filters offered next to the calendar.
func QuickRanges(now time.Time) []DateRange {
	today := startOfDay(now)

	satOffset := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	weekendFrom := today.AddDate(0, 0, satOffset)
	weekendTo := weekendFrom.AddDate(0, 0, 1)
	if today.Weekday() == time.Sunday {
		weekendFrom, weekendTo = today, today
	}

	return []DateRange{
		{Key: "today", Label: "Today", From: today, To: endOfDay(today)},
		{Key: "this_weekend", Label: "This Weekend", From: weekendFrom, To: endOfDay(weekendTo)},
		{Key: "next_7_days", Label: "Next 7 Days", From: today, To: endOfDay(today.AddDate(0, 0, 7))},
		{Key: "next_30_days", Label: "Next 30 Days", From: today, To: endOfDay(today.AddDate(0, 0, 30))},
	}
}

func QuickRange(key string, now time.Time) (DateRange, bool) {
	for _, r := range QuickRanges(now) {
		if r.Key == key {
			return r, true
		}
	}
	return DateRange{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
