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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It provides
// some features not present in the third-party package, such as terminal
// geometry and key decoding, and wraps termios methods in functions with
// friendlier names.
package easyterm

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"github.com/socsim/wdtsim/curated"
	"golang.org/x/sys/unix"
)

// TermGeometry contains the dimensions of a terminal (usually the output
// terminal).
type TermGeometry struct {
	Rows uint16
	Cols uint16
}

// Terminal is the main container for posix terminals. Usually embedded in
// other struct types.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios

	// sig/ack channels to control signal handler
	terminateHandlerSig chan bool
	terminateHandlerAck chan bool

	// public functions that are called from the signal handler are prefaced
	// with (to prevent race conditions, or worse):
	//		pt.mu.Lock()
	//		defer pt.mu.Unlock()
	mu       sync.Mutex
	geometry TermGeometry
}

// Initialise the fields in the Terminal struct.
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return curated.Errorf("easyterm: requires an input file")
	}
	if outputFile == nil {
		return curated.Errorf("easyterm: requires an output file")
	}

	pt.input = inputFile
	pt.output = outputFile

	// prepare the attributes for the different terminal modes we'll be using
	err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr)
	if err != nil {
		return curated.Errorf("easyterm: %v", err)
	}
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)

	// output processing is left on so that newlines are printed normally
	pt.rawAttr.Oflag = pt.canAttr.Oflag

	_ = pt.UpdateGeometry()

	pt.terminateHandlerSig = make(chan bool)
	pt.terminateHandlerAck = make(chan bool)

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			pt.terminateHandlerAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = pt.UpdateGeometry()
			case <-pt.terminateHandlerSig:
				return
			}
		}
	}()

	return nil
}

// CleanUp closes resources created in the Initialise() function. The terminal
// is returned to canonical mode.
func (pt *Terminal) CleanUp() {
	pt.CanonicalMode()
	pt.terminateHandlerSig <- true
	<-pt.terminateHandlerAck
}

// Print writes the formatted string to the output file.
func (pt *Terminal) Print(s string, a ...interface{}) {
	_, _ = pt.output.WriteString(fmt.Sprintf(s, a...))
	_ = pt.output.Sync()
}

// Input returns the terminal's input file.
func (pt *Terminal) Input() io.Reader {
	return pt.input
}

// Geometry returns the most recent dimensions of the output terminal.
func (pt *Terminal) Geometry() TermGeometry {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.geometry
}

// UpdateGeometry gets the current dimensions of the output terminal.
func (pt *Terminal) UpdateGeometry() error {
	ws, err := unix.IoctlGetWinsize(int(pt.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return curated.Errorf("easyterm: error updating terminal geometry (%v)", err)
	}

	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.geometry = TermGeometry{Rows: ws.Row, Cols: ws.Col}

	return nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.canAttr)
}

// RawMode puts terminal into raw mode.
func (pt *Terminal) RawMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.rawAttr)
}

// Flush makes sure the terminal's input buffer is empty.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return curated.Errorf("easyterm: %v", err)
	}
	return nil
}
