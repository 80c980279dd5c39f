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

// Package scheduler is the discrete-event scheduler at the centre of the
// simulated platform. Time in the scheduler is virtual and measured in
// nanoseconds. Time only moves forward when the platform calls Advance() or
// AdvanceTo(), and events scheduled for a time at or before the new time are
// run in order.
//
// Events scheduled for the same time are run in the order in which they were
// scheduled. An event may schedule further events, including events for the
// current time, and those events are run before AdvanceTo() returns.
//
// The scheduler is not safe for concurrent use. The platform serialises all
// access to it.
package scheduler
