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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/socsim/wdtsim/govern"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/scheduler"
)

// Clock is the source of real time used by Check().
type Clock interface {
	Now() time.Time
}

// Quantum is the amount of virtual time advanced between each check of the
// real time clock.
const Quantum = time.Millisecond

// CalcSpeed returns the ratio of virtual time to real time. A value of 1.0
// means that the platform is running at real time speed.
func CalcSpeed(virtual scheduler.Time, real time.Duration) float64 {
	if real <= 0 {
		return 0
	}
	return virtual.Duration().Seconds() / real.Seconds()
}

// Check the performance of the platform. The platform is run as quickly as
// possible for the duration of real time and the speed is written to the
// output.
func Check(output io.Writer, profile Profile, mc *hardware.Machine, clk Clock, duration time.Duration) error {
	startVirt := mc.Now()
	startReal := clk.Now()
	end := startReal.Add(duration)

	// only check for the end of the measurement period every
	// PerformanceBrake quanta
	performanceBrake := 0

	runner := func() error {
		return mc.Run(Quantum, func() (govern.State, error) {
			performanceBrake++
			if performanceBrake >= hardware.PerformanceBrake {
				performanceBrake = 0
				if !clk.Now().Before(end) {
					return govern.Ending, nil
				}
			}
			return govern.Running, nil
		})
	}

	err := RunProfiler(profile, "performance", runner)
	if err != nil {
		return err
	}

	real := clk.Now().Sub(startReal)
	virtual := mc.Now() - startVirt
	speed := CalcSpeed(virtual, real)

	_, err = io.WriteString(output, fmt.Sprintf("%.2fx real time (%s virtual in %.2fs)\n", speed, virtual, real.Seconds()))
	return err
}
