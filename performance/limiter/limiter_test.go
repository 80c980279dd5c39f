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

package limiter_test

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/performance/limiter"
	"github.com/socsim/wdtsim/test"
)

func TestTarget(t *testing.T) {
	clk := clock.NewFake()
	lim, err := limiter.NewLimiter(clk, 1.0)
	test.DemandSuccess(t, err)

	lim.Start(scheduler.Time(time.Second))
	test.ExpectEquality(t, lim.Target(), scheduler.Time(time.Second))

	clk.Add(100 * time.Millisecond)
	test.ExpectEquality(t, lim.Target(), scheduler.Time(1100*time.Millisecond))

	// doubling the scale doubles the rate at which the target moves
	test.DemandSuccess(t, lim.SetScale(2.0, lim.Target()))
	clk.Add(100 * time.Millisecond)
	test.ExpectEquality(t, lim.Target(), scheduler.Time(1300*time.Millisecond))
	test.ExpectEquality(t, lim.Scale(), 2.0)
}

func TestDelay(t *testing.T) {
	clk := clock.NewFake()
	lim, err := limiter.NewLimiter(clk, 0.5)
	test.DemandSuccess(t, err)
	lim.Start(0)

	// at half speed 10ms of virtual time takes 20ms of real time
	test.ExpectEquality(t, lim.Delay(scheduler.Time(10*time.Millisecond)), 20*time.Millisecond)

	clk.Add(15 * time.Millisecond)
	test.ExpectEquality(t, lim.Delay(scheduler.Time(10*time.Millisecond)), 5*time.Millisecond)

	clk.Add(15 * time.Millisecond)
	test.ExpectEquality(t, lim.Delay(scheduler.Time(10*time.Millisecond)), time.Duration(0))
}

func TestWait(t *testing.T) {
	clk := clock.NewFake()
	lim, err := limiter.NewLimiter(clk, 1.0)
	test.DemandSuccess(t, err)
	lim.Start(0)

	test.ExpectEquality(t, lim.Wait(scheduler.Time(5*time.Millisecond)), 5*time.Millisecond)
}

func TestLag(t *testing.T) {
	clk := clock.NewFake()
	lim, err := limiter.NewLimiter(clk, 1.0)
	test.DemandSuccess(t, err)
	lim.Start(0)

	// a long stall causes the limiter to be anchored at the requested time
	clk.Add(time.Second)
	test.ExpectEquality(t, lim.Wait(scheduler.Time(10*time.Millisecond)), time.Duration(0))
	test.ExpectEquality(t, lim.Target(), scheduler.Time(10*time.Millisecond))
}

func TestInvalidScale(t *testing.T) {
	_, err := limiter.NewLimiter(clock.NewFake(), 0)
	test.ExpectFailure(t, err)
}
