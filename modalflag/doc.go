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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package, with
// some differences. Instead of defining flags globally, flags are added to a
// Modes instance and arguments are supplied with NewArgs():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	verbose := md.AddBool("v", false, "verbose")
//	r, err := md.Parse()
//
// Sub-modes are added with AddSubModes(). After a call to Parse() the
// selected sub-mode is available with Mode(). The first sub-mode in the list
// is the default and is selected if the first non-flag argument is not a
// recognised sub-mode:
//
//	md.NewMode()
//	md.AddSubModes("RUN", "MONITOR", "GRAPH")
//	r, err = md.Parse()
//	switch md.Mode() {
//	case "RUN":
//		// flags for RUN mode
//		md.NewMode()
//		duration := md.AddDuration("duration", time.Second, "virtual time")
//		r, err = md.Parse()
//	}
//
// Help is printed automatically when the -help (or -h) flag is encountered
// and Parse() returns ParseHelp.
package modalflag
