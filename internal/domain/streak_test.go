package domain_test

import (
	"testing"
	"time"

	"distance-tracker/internal/domain"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.Local)
	day := func(daysAgo int, hour int) time.Time {
		d := now.AddDate(0, 0, -daysAgo)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local)
	}

	Convey("Given entries today, yesterday and three days ago", t, func() {
		// Gap on day two ends the run.
		timestamps := []time.Time{day(0, 9), day(1, 21), day(3, 7)}

		Convey("Then the streak is two", func() {
			So(domain.Streak(timestamps, now), ShouldEqual, 2)
		})
	})

	Convey("Given no entries", t, func() {
		Convey("Then the streak is zero", func() {
			So(domain.Streak(nil, now), ShouldEqual, 0)
		})
	})

	Convey("Given only an entry from yesterday", t, func() {
		timestamps := []time.Time{day(1, 12)}

		Convey("Then there is no partial credit", func() {
			So(domain.Streak(timestamps, now), ShouldEqual, 0)
		})
	})

	Convey("Given several entries on the same day", t, func() {
		timestamps := []time.Time{day(0, 8), day(0, 12), day(0, 20), day(1, 10)}

		Convey("Then each day counts once", func() {
			So(domain.Streak(timestamps, now), ShouldEqual, 2)
		})
	})

	Convey("Given an unbroken week of activity", t, func() {
		var timestamps []time.Time
		for i := 0; i < 7; i++ {
			timestamps = append(timestamps, day(i, 10))
		}

		Convey("Then the streak spans the whole week", func() {
			So(domain.Streak(timestamps, now), ShouldEqual, 7)
		})
	})

	Convey("Given timestamps in arbitrary order", t, func() {
		timestamps := []time.Time{day(2, 6), day(0, 23), day(1, 1)}

		Convey("Then order does not matter", func() {
			So(domain.Streak(timestamps, now), ShouldEqual, 3)
		})
	})
}
