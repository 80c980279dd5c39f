// This file is part of Wdtsim.
//
// Wdtsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Wdtsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Wdtsim.  If not, see <https://www.gnu.org/licenses/>.

package scheduler_test

import (
	"strings"
	"testing"
	"time"

	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/test"
)

func TestOrdering(t *testing.T) {
	s := scheduler.NewScheduler()
	var order []string

	s.Schedule(300, "c", func() { order = append(order, "c") })
	s.Schedule(100, "a", func() { order = append(order, "a") })
	s.Schedule(200, "b1", func() { order = append(order, "b1") })
	s.Schedule(200, "b2", func() { order = append(order, "b2") })
	test.ExpectEquality(t, s.Pending(), 4)

	next, ok := s.Next()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, next, scheduler.Time(100))

	n := s.AdvanceTo(250)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, strings.Join(order, ","), "a,b1,b2")
	test.ExpectEquality(t, s.Now(), scheduler.Time(250))

	n = s.Advance(50 * time.Nanosecond)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, strings.Join(order, ","), "a,b1,b2,c")
	test.ExpectEquality(t, s.Pending(), 0)

	_, ok = s.Next()
	test.ExpectFailure(t, ok)
}

func TestTimeDuringEvent(t *testing.T) {
	s := scheduler.NewScheduler()
	var at scheduler.Time
	s.Schedule(1000, "x", func() { at = s.Now() })
	s.AdvanceTo(5000)
	test.ExpectEquality(t, at, scheduler.Time(1000))
	test.ExpectEquality(t, s.Now(), scheduler.Time(5000))
}

func TestCancel(t *testing.T) {
	s := scheduler.NewScheduler()
	fired := false
	e := s.Schedule(100, "x", func() { fired = true })
	test.ExpectSuccess(t, e.Pending())
	test.ExpectSuccess(t, s.Cancel(e))
	test.ExpectFailure(t, e.Pending())

	// cancelling twice is harmless
	test.ExpectFailure(t, s.Cancel(e))
	test.ExpectFailure(t, s.Cancel(nil))

	s.AdvanceTo(1000)
	test.ExpectFailure(t, fired)
}

func TestCancelMiddle(t *testing.T) {
	s := scheduler.NewScheduler()
	var order []string
	events := make([]*scheduler.Event, 0)
	for i, l := range []string{"a", "b", "c", "d", "e"} {
		l := l
		events = append(events, s.Schedule(scheduler.Time(i*10), l, func() { order = append(order, l) }))
	}
	s.Cancel(events[2])
	s.Cancel(events[0])
	s.AdvanceTo(100)
	test.ExpectEquality(t, strings.Join(order, ","), "b,d,e")
}

func TestScheduleFromEvent(t *testing.T) {
	s := scheduler.NewScheduler()
	count := 0

	// an event that reschedules itself every 10ns
	var tick func()
	tick = func() {
		count++
		s.Schedule(s.Now()+10, "tick", tick)
	}
	s.Schedule(10, "tick", tick)

	s.AdvanceTo(100)
	test.ExpectEquality(t, count, 10)
	test.ExpectEquality(t, s.Pending(), 1)

	// an event scheduled for the current time from within an event is run
	// during the same advance
	ran := false
	s.Schedule(105, "outer", func() {
		s.Schedule(s.Now(), "inner", func() { ran = true })
	})
	s.AdvanceTo(105)
	test.ExpectSuccess(t, ran)
}

func TestPastAndBackwards(t *testing.T) {
	s := scheduler.NewScheduler()
	s.AdvanceTo(100)

	// scheduling in the past is treated as now
	e := s.Schedule(50, "past", func() {})
	test.ExpectEquality(t, e.At(), scheduler.Time(100))

	// time never moves backwards
	n := s.AdvanceTo(10)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, s.Now(), scheduler.Time(100))
}

func TestRestart(t *testing.T) {
	s := scheduler.NewScheduler()
	e := s.Schedule(100, "x", func() {})
	s.Restart(5000)
	test.ExpectFailure(t, e.Pending())
	test.ExpectEquality(t, s.Pending(), 0)
	test.ExpectEquality(t, s.Now(), scheduler.Time(5000))
}
