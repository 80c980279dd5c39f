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
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jmhodges/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/environment"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/preferences"
	"github.com/socsim/wdtsim/logger"
	"github.com/socsim/wdtsim/metrics"
	"github.com/socsim/wdtsim/modalflag"
	"github.com/socsim/wdtsim/monitor"
	"github.com/socsim/wdtsim/performance"
	"github.com/socsim/wdtsim/prefs"
	"github.com/socsim/wdtsim/savestate"
	"github.com/socsim/wdtsim/statsview"
	"github.com/socsim/wdtsim/terminal/easyterm"
	"github.com/socsim/wdtsim/tracewriter"
	"github.com/socsim/wdtsim/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode provides its own
	// handler. for example, the RUN mode ends the session gracefully so that
	// savestates and traces are written.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Stop(intChan)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "MONITOR", "PERFORMANCE", "GRAPH", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)

	case "MONITOR":
		err = monitorMode(md, sync)

	case "PERFORMANCE":
		err = perform(md)

	case "GRAPH":
		err = graph(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// platform options shared by every mode that creates a machine.
type platformOpts struct {
	prefs     *string
	prefsFile *string
	program   program
	reload    *uint
	prescaler *uint
	divider   *uint
	mode      *string
	load      *string
}

func addPlatformFlags(md *modalflag.Modes) *platformOpts {
	return &platformOpts{
		prefs:     md.AddString("prefs", "", "override preferences: \"key::value; key::value\""),
		prefsFile: md.AddString("prefsfile", preferences.DefaultPrefsFile, "preferences file"),
		reload:    md.AddUint("reload", 0x8000, "watchdog reload value"),
		prescaler: md.AddUint("prescaler", 0x80, "watchdog prescaler (0 to 255)"),
		divider:   md.AddUint("divider", 16, "watchdog divider: 16, 32, 64, 128"),
		mode:      md.AddString("mode", modeIRQ, "expiry action: IRQ, RESET, BOTH, NONE"),
		load:      md.AddString("load", "", "restore platform from savestate"),
	}
}

// newMachine creates a machine according to the platform options. If a
// savestate is named it is restored, otherwise the watchdog is programmed and
// started.
func (opts *platformOpts) newMachine(fs afero.Fs, reg prometheus.Registerer) (*hardware.Machine, error) {
	if *opts.prefs != "" {
		prefs.PushCommandLineStack(*opts.prefs)
	}

	p, err := preferences.NewPreferences(fs, *opts.prefsFile)
	if err != nil {
		return nil, err
	}

	if *opts.prefs != "" {
		unused := prefs.PopCommandLineStack()
		if unused != "" {
			return nil, curated.Errorf("unused preferences: %s", unused)
		}
	}

	var m *metrics.Metrics
	if reg != nil {
		m, err = metrics.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
	}

	env := environment.NewEnvironment(environment.Main, p)
	mc, err := hardware.NewMachine(env, m)
	if err != nil {
		return nil, err
	}

	if *opts.load != "" {
		state, err := savestate.Load(fs, *opts.load)
		if err != nil {
			return nil, err
		}
		err = mc.Plumb(state)
		if err != nil {
			return nil, err
		}
		return mc, nil
	}

	opts.program = program{
		reload:    uint32(*opts.reload),
		prescaler: uint32(*opts.prescaler),
		divider:   uint32(*opts.divider),
		mode:      *opts.mode,
	}
	err = opts.program.apply(mc)
	if err != nil {
		return nil, err
	}

	return mc, nil
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	opts := addPlatformFlags(md)
	duration := md.AddDuration("duration", 10*time.Second, "virtual time to run for")
	ack := md.AddBool("ack", false, "acknowledge interrupts as they are raised")
	save := md.AddString("save", "", "save platform to savestate on completion")
	trace := md.AddString("trace", "", "record interrupt and reset signals to wav file")
	sampleRate := md.AddInt("samplerate", tracewriter.DefaultSampleRate, "sample rate of signal trace")
	metricsAddr := md.AddString("metrics", "", "serve prometheus metrics on address")
	stats := md.AddBool("statsview", false, "run stats server")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return curated.Errorf("too many arguments for %s mode", md)
	}

	logger.SetEcho(nil, false)
	if *log {
		logger.SetEcho(md.Output, false)
	}

	if *stats {
		if !statsview.Available() {
			return curated.Errorf("statsview not available in this build")
		}
		statsview.Launch(md.Output)
	}

	fs := afero.NewOsFs()
	reg := prometheus.NewRegistry()

	mc, err := opts.newMachine(fs, reg)
	if err != nil {
		return err
	}

	if *trace != "" {
		tw, err := tracewriter.New(fs, *trace, *sampleRate, mc.Now())
		if err != nil {
			return err
		}
		mc.AddIRQListener(tw.IRQ)
		mc.AddResetListener(func(r hardware.ResetRecord) {
			tw.Reset(r.Time)
		})
		defer func() {
			err := tw.End(mc.Now())
			if err != nil {
				fmt.Fprintf(md.Output, "* error writing trace: %v\n", err)
			}
		}()
	}

	// the session handles ctrl-c itself so that the savestate and trace are
	// written
	sync.state <- stateRequest{req: reqNoIntSig}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var l net.Listener
	if *metricsAddr != "" {
		l, err = metrics.Listen(clock.New(), *metricsAddr)
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "metrics available at http://%s/metrics\n", l.Addr())
		g.Go(func() error {
			return metrics.Serve(l, reg)
		})
	}

	var s summary
	g.Go(func() error {
		if l != nil {
			defer l.Close()
		}
		var err error
		s, err = runSession(ctx, mc, *duration, *ack)
		return err
	})

	err = g.Wait()
	if err != nil {
		return err
	}

	writeSummary(md.Output, s)

	if *save != "" {
		err = savestate.Save(fs, *save, mc.Snapshot())
		if err != nil {
			return err
		}
	}

	return nil
}

func writeSummary(output io.Writer, s summary) {
	fmt.Fprintf(output, "ran %s (%s to %s)\n", s.end-s.start, s.start, s.end)
	fmt.Fprintf(output, "interrupts: %d (%d acknowledged)\n", s.irqs, s.acks)
	fmt.Fprintf(output, "resets: %d\n", len(s.resets))
	for _, r := range s.resets {
		fmt.Fprintf(output, "  %s\n", r)
	}
}

func monitorMode(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	opts := addPlatformFlags(md)
	scale := md.AddDuration("scale", time.Second, "virtual time per second of real time")
	save := md.AddString("save", "", "savestate file for the save and load keys")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return curated.Errorf("too many arguments for %s mode", md)
	}

	logger.SetEcho(nil, false)

	fs := afero.NewOsFs()

	mc, err := opts.newMachine(fs, nil)
	if err != nil {
		return err
	}

	mon, err := monitor.NewMonitor(mc, clock.New(), scale.Seconds())
	if err != nil {
		return err
	}
	if *save != "" {
		mon.SetSavestate(fs, *save)
	}

	term := &easyterm.Terminal{}
	err = term.Initialise(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer term.CleanUp()

	// raw mode delivers ctrl-c as a key
	sync.state <- stateRequest{req: reqNoIntSig}

	return mon.Run(term, os.Stdout)
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	opts := addPlatformFlags(md)
	duration := md.AddDuration("duration", 5*time.Second, "real time to run for")
	profile := md.AddString("profile", "none", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma sep)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return curated.Errorf("too many arguments for %s mode", md)
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	logger.SetEcho(nil, false)

	mc, err := opts.newMachine(afero.NewOsFs(), nil)
	if err != nil {
		return err
	}

	return performance.Check(md.Output, prf, mc, clock.New(), *duration)
}

func graph(md *modalflag.Modes) error {
	md.NewMode()

	opts := addPlatformFlags(md)
	advance := md.AddDuration("advance", 0, "virtual time to run before graphing")
	output := md.AddString("output", "", "write graph to file (default stdout)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return curated.Errorf("too many arguments for %s mode", md)
	}

	fs := afero.NewOsFs()

	mc, err := opts.newMachine(fs, nil)
	if err != nil {
		return err
	}
	mc.Advance(*advance)

	w := md.Output
	if *output != "" {
		f, err := fs.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	memviz.Map(w, mc.Snapshot())

	return nil
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		if r == "" {
			r = "no revision information"
		}
		fmt.Fprintln(md.Output, r)
	}

	return nil
}
