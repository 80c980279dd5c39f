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

package signals_test

import (
	"testing"

	"github.com/socsim/wdtsim/hardware/signals"
	"github.com/socsim/wdtsim/test"
)

func TestLine(t *testing.T) {
	l := signals.NewLine("wdt")
	test.ExpectFailure(t, l.Level())
	test.ExpectEquality(t, l.String(), "wdt: low")

	var edges []bool
	l.AddListener(func(level bool) {
		edges = append(edges, level)
	})

	l.Raise()
	l.Raise()
	test.ExpectSuccess(t, l.Level())
	test.ExpectEquality(t, l.Raised(), 1)

	l.Lower()
	l.Lower()
	l.SetLevel(true)
	test.ExpectEquality(t, l.Raised(), 2)

	// listener is only notified on a change of level
	test.DemandEquality(t, len(edges), 3)
	test.ExpectEquality(t, edges[0], true)
	test.ExpectEquality(t, edges[1], false)
	test.ExpectEquality(t, edges[2], true)
}

func TestResetCause(t *testing.T) {
	test.ExpectEquality(t, signals.GuestWatchdogReset.String(), "guest watchdog reset")
	test.ExpectEquality(t, signals.ResetCause(99).String(), "unknown reset cause (99)")
}
