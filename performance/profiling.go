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
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/socsim/wdtsim/curated"
)

// Profile specifies which profiles are to be generated by RunProfiler().
// Values can be combined.
type Profile int

// List of valid Profile values.
const (
	ProfileNone  Profile = 0
	ProfileCPU   Profile = 0x01
	ProfileMem   Profile = 0x02
	ProfileTrace Profile = 0x04
)

// ParseProfileString converts a comma separated list of profile names to a
// Profile value. Valid names are CPU, MEM, TRACE, ALL and NONE. Case is
// ignored.
func ParseProfileString(s string) (Profile, error) {
	p := ProfileNone
	for _, n := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(n)) {
		case "", "NONE":
		case "CPU":
			p |= ProfileCPU
		case "MEM":
			p |= ProfileMem
		case "TRACE":
			p |= ProfileTrace
		case "ALL":
			p |= ProfileCPU | ProfileMem | ProfileTrace
		default:
			return ProfileNone, curated.Errorf("profile: unknown profile type (%s)", n)
		}
	}
	return p, nil
}

// RunProfiler runs the supplied function with the requested profiles active.
// Profile files are named after the filenameHeader argument. For example, a
// CPU profile with a header of "performance" is written to
// "performance_cpu.profile".
func RunProfiler(profile Profile, filenameHeader string, run func() error) (rerr error) {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(filenameHeader + "_cpu.profile")
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil && rerr == nil {
				rerr = curated.Errorf("profile: %v", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(filenameHeader + "_trace.profile")
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil && rerr == nil {
				rerr = curated.Errorf("profile: %v", err)
			}
		}()

		err = trace.Start(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer trace.Stop()
	}

	err := run()
	if err != nil {
		return err
	}

	if profile&ProfileMem == ProfileMem {
		f, err := os.Create(filenameHeader + "_mem.profile")
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer f.Close()

		runtime.GC()
		err = pprof.WriteHeapProfile(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
	}

	return nil
}
