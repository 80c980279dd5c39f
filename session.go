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

package main

import (
	"context"
	"time"

	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/watchdog"
)

// runQuantum is the amount of virtual time advanced between checks for
// cancellation and pending interrupt acknowledgement.
const runQuantum = time.Millisecond

// summary of a session.
type summary struct {
	start  scheduler.Time
	end    scheduler.Time
	irqs   int
	acks   int
	resets []hardware.ResetRecord
}

// runSession advances the machine by duration of virtual time, as quickly as
// possible. If ack is true a raised interrupt line is acknowledged at the end
// of the quantum in which it was raised.
//
// The session ends early, without error, if the context is cancelled.
func runSession(ctx context.Context, mc *hardware.Machine, duration time.Duration, ack bool) (summary, error) {
	s := summary{start: mc.Now()}
	resets := len(mc.ResetLog())

	mc.AddIRQListener(func(_ scheduler.Time, level bool) {
		if level {
			s.irqs++
		}
	})

	end := s.start + scheduler.Time(duration)
	for now := s.start; now < end; now = mc.Now() {
		if ctx.Err() != nil {
			break
		}

		next := now + scheduler.Time(runQuantum)
		if next > end {
			next = end
		}
		mc.AdvanceTo(next)

		if ack && mc.Status().IRQ {
			err := mc.Write(mc.Base()+watchdog.ACK, 0)
			if err != nil {
				return s, err
			}
			s.acks++
		}
	}

	s.end = mc.Now()
	s.resets = mc.ResetLog()[resets:]

	return s, nil
}
