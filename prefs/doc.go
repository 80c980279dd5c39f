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

// Package prefs facilitates the storage of preference values on disk (or
// in any afero.Fs). Values are registered with a Disk instance under a key
// and the Disk can then be saved and loaded.
//
//	dsk, _ := prefs.NewDisk(afero.NewOsFs(), "wdtsim.prefs")
//
//	var fallThrough prefs.Bool
//	_ = dsk.Add("watchdog.dividerfallthrough", &fallThrough)
//	_ = dsk.Load()
//
// The file format is one entry per line, with the key and value separated by
// " :: ". Entries in the file that are not registered with the Disk are
// preserved when the Disk is saved.
//
// Values can be overridden from the command line. A string of the form
//
//	"key::value; key::value"
//
// is pushed onto the command line stack with PushCommandLineStack(). The next
// call to Disk.Load() takes values from the top of the stack in preference to
// the values in the file.
package prefs
