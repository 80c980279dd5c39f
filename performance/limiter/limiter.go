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

// Package limiter paces the advance of virtual time against a real time
// clock.
//
// A Limiter is anchored to a moment in virtual time with Start(). From then
// on Target() returns the virtual time that should have been reached given
// the real time that has elapsed and the Limiter's scale. For example:
//
//	lim, _ := limiter.NewLimiter(clock.New(), 1.0)
//	lim.Start(mc.Now())
//	for {
//		lim.Wait(mc.Now() + quantum)
//		mc.AdvanceTo(lim.Target())
//	}
//
// A scale of 1.0 runs the platform at real time. A scale of 2.0 runs the
// platform at twice real time.
package limiter

import (
	"time"

	"github.com/jmhodges/clock"
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/scheduler"
)

// MaxLag is the furthest virtual time can fall behind its target before the
// Limiter gives up trying to catch up.
const MaxLag = 250 * time.Millisecond

// Limiter paces virtual time against real time.
type Limiter struct {
	clk   clock.Clock
	scale float64

	realAnchor time.Time
	virtAnchor scheduler.Time
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(clk clock.Clock, scale float64) (*Limiter, error) {
	lim := &Limiter{clk: clk}
	err := lim.SetScale(scale, 0)
	if err != nil {
		return nil, err
	}
	return lim, nil
}

// Start anchors the Limiter to the virtual time.
func (lim *Limiter) Start(virt scheduler.Time) {
	lim.realAnchor = lim.clk.Now()
	lim.virtAnchor = virt
}

// Scale returns the current ratio of virtual time to real time.
func (lim *Limiter) Scale() float64 {
	return lim.scale
}

// SetScale changes the ratio of virtual time to real time. The Limiter is
// anchored again at the virtual time.
func (lim *Limiter) SetScale(scale float64, virt scheduler.Time) error {
	if scale <= 0 {
		return curated.Errorf("limiter: scale must be positive (%v)", scale)
	}
	lim.scale = scale
	lim.Start(virt)
	return nil
}

// Target returns the virtual time that should have been reached by now.
func (lim *Limiter) Target() scheduler.Time {
	elapsed := lim.clk.Now().Sub(lim.realAnchor)
	return lim.virtAnchor + scheduler.Time(float64(elapsed)*lim.scale)
}

// Delay returns how long to wait before the virtual time is due. Returns zero
// if it is already due.
func (lim *Limiter) Delay(virt scheduler.Time) time.Duration {
	due := lim.realAnchor.Add(time.Duration(float64(virt-lim.virtAnchor) / lim.scale))
	d := due.Sub(lim.clk.Now())
	if d < 0 {
		return 0
	}
	return d
}

// Wait until the virtual time is due. Returns the length of the wait.
//
// If the virtual time is already more than MaxLag overdue then the Limiter is
// anchored again at that virtual time. This prevents a long stall (for
// example, the process being suspended) being followed by a burst of
// activity.
func (lim *Limiter) Wait(virt scheduler.Time) time.Duration {
	if lim.Target()-virt > scheduler.Time(float64(MaxLag)*lim.scale) {
		lim.Start(virt)
		return 0
	}

	d := lim.Delay(virt)
	if d > 0 {
		lim.clk.Sleep(d)
	}
	return d
}
