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

// Package monitor is an interactive session with the simulated platform. The
// platform runs paced against real time and the state of the watchdog is
// shown on a continuously updated status line. Single key presses take the
// part of the guest software:
//
//	k	kick the watchdog (COUNT is written with the value of RELOAD)
//	a	acknowledge the interrupt
//	e	toggle the enable bit
//	i	toggle interrupt mode
//	r	toggle reset mode
//	R	reset the platform
//	+/-	double/halve the speed of virtual time
//	p	pause/resume
//	s	save the platform state
//	l	load the platform state
//	q	quit
//
// The cursor keys change the RELOAD value. Up and down multiply and divide
// the value by two.
package monitor
