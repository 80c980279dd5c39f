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

// Package statsview serves charts of the Go runtime while the platform runs.
// It is most useful during long RUN sessions, where the heap and goroutine
// charts show whether the scheduler queue or a signal trace is growing. The
// charts come from "github.com/go-echarts/statsview".
//
// The package only does something when built with the statsview tag:
//
//	go build -tags statsview
//
// The charts are then served at localhost:12610/debug/statsview and the
// usual pprof endpoints at localhost:12610/debug/pprof/. Without the tag
// Launch() does nothing and Available() returns false, and the RUN mode
// rejects the -statsview flag.
package statsview
