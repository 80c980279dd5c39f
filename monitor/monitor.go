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

package monitor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmhodges/clock"
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/govern"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/watchdog"
	"github.com/socsim/wdtsim/logger"
	"github.com/socsim/wdtsim/performance/limiter"
	"github.com/socsim/wdtsim/savestate"
	"github.com/socsim/wdtsim/terminal/easyterm"
	"github.com/spf13/afero"
)

// Quantum is the amount of virtual time advanced between each check for
// input.
const Quantum = time.Millisecond

// StatusInterval is the real time between updates of the status line.
const StatusInterval = 100 * time.Millisecond

// Speed limits.
const (
	MinScale = 1.0 / 1024
	MaxScale = 1024
)

// Monitor is an interactive session with a Machine.
type Monitor struct {
	mc  *hardware.Machine
	clk clock.Clock
	lim *limiter.Limiter

	state govern.State

	// savestate location. the s and l keys do nothing if fs is nil
	fs       afero.Fs
	savePath string

	keys       chan easyterm.Key
	lastStatus time.Time

	// the most recent message for the status line
	message string
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(mc *hardware.Machine, clk clock.Clock, scale float64) (*Monitor, error) {
	lim, err := limiter.NewLimiter(clk, scale)
	if err != nil {
		return nil, curated.Errorf("monitor: %v", err)
	}
	return &Monitor{
		mc:    mc,
		clk:   clk,
		lim:   lim,
		state: govern.Running,
		keys:  make(chan easyterm.Key, 16),
	}, nil
}

// SetSavestate sets the file used by the save and load keys.
func (mon *Monitor) SetSavestate(fs afero.Fs, path string) {
	mon.fs = fs
	mon.savePath = path
}

// State returns the current state of the monitor.
func (mon *Monitor) State() govern.State {
	return mon.state
}

// Scale returns the current ratio of virtual time to real time.
func (mon *Monitor) Scale() float64 {
	return mon.lim.Scale()
}

func (mon *Monitor) reg(offset uint32) uint32 {
	v, err := mon.mc.Read(mon.mc.Base() + offset)
	if err != nil {
		mon.message = err.Error()
	}
	return v
}

func (mon *Monitor) setReg(offset uint32, value uint32) {
	err := mon.mc.Write(mon.mc.Base()+offset, value)
	if err != nil {
		mon.message = err.Error()
	}
}

// HandleKey performs the action associated with the key.
func (mon *Monitor) HandleKey(k easyterm.Key) error {
	switch k {
	case 'k':
		mon.setReg(watchdog.COUNT, mon.reg(watchdog.RELOAD))
		mon.message = "kick"
	case 'a':
		mon.setReg(watchdog.ACK, 0)
		mon.message = "ack"
	case 'e':
		mon.setReg(watchdog.CONTROL, mon.reg(watchdog.CONTROL)^watchdog.Enable)
	case 'i':
		mon.setReg(watchdog.CONTROL, mon.reg(watchdog.CONTROL)^watchdog.IRQEnable)
	case 'r':
		mon.setReg(watchdog.CONTROL, mon.reg(watchdog.CONTROL)^watchdog.ResetEnable)
	case 'R':
		mon.mc.Reset()
		mon.message = "platform reset"
	case easyterm.KeyUp:
		if r := mon.reg(watchdog.RELOAD); r < 0x80000000 {
			mon.setReg(watchdog.RELOAD, r*2)
		}
	case easyterm.KeyDown:
		if r := mon.reg(watchdog.RELOAD); r > 1 {
			mon.setReg(watchdog.RELOAD, r/2)
		}
	case '+':
		return mon.setScale(mon.lim.Scale() * 2)
	case '-':
		return mon.setScale(mon.lim.Scale() / 2)
	case 'p':
		switch mon.state {
		case govern.Running:
			mon.state = govern.Paused
		case govern.Paused:
			mon.state = govern.Running
			mon.lim.Start(mon.mc.Now())
		}
	case 's':
		if mon.fs == nil {
			return nil
		}
		err := savestate.Save(mon.fs, mon.savePath, mon.mc.Snapshot())
		if err != nil {
			return err
		}
		mon.message = fmt.Sprintf("saved to %s", mon.savePath)
	case 'l':
		if mon.fs == nil {
			return nil
		}
		state, err := savestate.Load(mon.fs, mon.savePath)
		if err == nil {
			err = mon.mc.Plumb(state)
		}
		if err != nil {
			mon.message = err.Error()
			return nil
		}
		mon.lim.Start(mon.mc.Now())
		mon.message = fmt.Sprintf("loaded from %s", mon.savePath)
	case 'q', easyterm.KeyCtrlC, easyterm.KeyCtrlD:
		mon.state = govern.Ending
	}
	return nil
}

func (mon *Monitor) setScale(scale float64) error {
	if scale < MinScale || scale > MaxScale {
		return nil
	}
	err := mon.lim.SetScale(scale, mon.mc.Now())
	if err != nil {
		return curated.Errorf("monitor: %v", err)
	}
	mon.message = fmt.Sprintf("speed x%g", scale)
	return nil
}

// StatusLine returns a single line summary of the platform's state.
func (mon *Monitor) StatusLine() string {
	s := mon.mc.Status()

	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("%-12s %s RELOAD=%-10d COUNT=%-10d", s.Time.Duration().Truncate(time.Millisecond), s.Control, s.Reload, s.Count))
	if s.IRQ {
		b.WriteString(" IRQ")
	} else {
		b.WriteString(" ---")
	}
	b.WriteString(fmt.Sprintf(" resets=%d", s.Resets))
	if mon.state == govern.Paused {
		b.WriteString(" [paused]")
	}
	if mon.message != "" {
		b.WriteString(" ")
		b.WriteString(mon.message)
	}
	return b.String()
}

// check is the continue check function passed to the Machine's Run()
// function
func (mon *Monitor) check(output io.Writer) (govern.State, error) {
	for done := false; !done; {
		select {
		case k, ok := <-mon.keys:
			if !ok {
				mon.state = govern.Ending
				done = true
				continue
			}
			if err := mon.HandleKey(k); err != nil {
				return govern.Ending, err
			}
		default:
			done = true
		}
	}

	switch mon.state {
	case govern.Running:
		mon.lim.Wait(mon.mc.Now() + scheduler.Time(Quantum))
	case govern.Paused:
		mon.clk.Sleep(Quantum)
	}

	if now := mon.clk.Now(); now.Sub(mon.lastStatus) >= StatusInterval || mon.state == govern.Ending {
		mon.lastStatus = now
		mon.printStatus(output)
	}

	return mon.state, nil
}

func (mon *Monitor) printStatus(output io.Writer) {
	// log entries made since the last status are printed above the status
	// line
	var recent strings.Builder
	logger.WriteRecent(&recent)
	if recent.Len() > 0 {
		io.WriteString(output, easyterm.ClearLine)
		io.WriteString(output, strings.ReplaceAll(recent.String(), "\n", "\r\n"))
	}
	io.WriteString(output, easyterm.ClearLine)
	io.WriteString(output, mon.StatusLine())
}

// Run the interactive session on the terminal. Returns when the quit key is
// pressed or the terminal input is closed.
func (mon *Monitor) Run(term *easyterm.Terminal, output io.Writer) error {
	term.RawMode()
	defer term.CanonicalMode()

	io.WriteString(output, easyterm.HideCursor)
	defer io.WriteString(output, easyterm.ShowCursor+"\r\n")

	go func() {
		kr := easyterm.NewKeyReader(term.Input())
		for {
			k, err := kr.ReadKey()
			if err != nil {
				close(mon.keys)
				return
			}
			mon.keys <- k
		}
	}()

	mon.lim.Start(mon.mc.Now())

	return mon.mc.Run(Quantum, func() (govern.State, error) {
		return mon.check(output)
	})
}
