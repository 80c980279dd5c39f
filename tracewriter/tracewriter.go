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

// Package tracewriter records the output signals of the watchdog against
// virtual time and writes them to disk as a WAV file. The WAV file can be
// inspected with any audio editor, which makes it a convenient way of seeing
// the timing of interrupts and resets over a long run.
//
// The interrupt line is rendered as a square wave, alternating between
// SampleLow and SampleHigh. A reset is rendered as a single sample with the
// value SampleReset.
//
// Signal changes are kept in memory and only rendered when End() is called.
// The samples are rendered and written in chunks so the memory used does not
// grow with the length of the trace.
package tracewriter

import (
	"math/bits"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/clocks"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/spf13/afero"
)

// Sample values used in the rendered trace.
const (
	SampleLow   = 0x40
	SampleHigh  = 0xc0
	SampleReset = 0xff
)

// DefaultSampleRate is the number of samples per second of virtual time.
const DefaultSampleRate = 48000

type edge struct {
	t     scheduler.Time
	level bool
}

// TraceWriter records signal changes for rendering as a WAV file.
type TraceWriter struct {
	fs       afero.Fs
	filename string
	rate     int

	start scheduler.Time
	edges []edge

	resets []scheduler.Time
}

// New is the preferred method of initialisation for the TraceWriter type.
// The trace begins at the start time with the interrupt line low.
func New(fs afero.Fs, filename string, sampleRate int, start scheduler.Time) (*TraceWriter, error) {
	if sampleRate <= 0 {
		return nil, curated.Errorf("tracewriter: invalid sample rate (%d)", sampleRate)
	}
	return &TraceWriter{
		fs:       fs,
		filename: filename,
		rate:     sampleRate,
		start:    start,
	}, nil
}

// IRQ records a change of level on the interrupt line. Suitable for use with
// hardware.Machine.AddIRQListener().
func (tw *TraceWriter) IRQ(t scheduler.Time, level bool) {
	tw.edges = append(tw.edges, edge{t: t, level: level})
}

// Reset records a platform reset.
func (tw *TraceWriter) Reset(t scheduler.Time) {
	tw.resets = append(tw.resets, t)
}

// sample returns the index of the sample containing the time.
func (tw *TraceWriter) sample(t scheduler.Time) int {
	if t <= tw.start {
		return 0
	}
	hi, lo := bits.Mul64(uint64(t-tw.start), uint64(tw.rate))
	q, _ := bits.Div64(hi, lo, clocks.NanosPerSecond)
	return int(q)
}

// ChunkSize is the maximum number of samples rendered at once by End().
const ChunkSize = 64 * 1024

// Render returns the samples of the trace from the start time up to but not
// including the end time.
func (tw *TraceWriter) Render(end scheduler.Time) []int {
	data := make([]int, 0, tw.sample(end))
	_ = tw.RenderChunks(end, ChunkSize, func(chunk []int) error {
		data = append(data, chunk...)
		return nil
	})
	return data
}

// RenderChunks renders the same samples as Render() but delivers them to the
// output function in chunks of no more than size samples. The chunk is reused
// between calls. Rendering stops with the first error returned by output.
func (tw *TraceWriter) RenderChunks(end scheduler.Time, size int, output func(chunk []int) error) error {
	if size <= 0 {
		return curated.Errorf("tracewriter: invalid chunk size (%d)", size)
	}

	n := tw.sample(end)
	if n < size {
		size = n
	}
	chunk := make([]int, size)

	level := false
	e := 0
	r := 0

	for first := 0; first < n; first += len(chunk) {
		if n-first < len(chunk) {
			chunk = chunk[:n-first]
		}

		for j := range chunk {
			i := first + j

			// the level at the end of the sample period
			for e < len(tw.edges) && tw.sample(tw.edges[e].t) <= i {
				level = tw.edges[e].level
				e++
			}
			if level {
				chunk[j] = SampleHigh
			} else {
				chunk[j] = SampleLow
			}

			for r < len(tw.resets) && tw.sample(tw.resets[r]) <= i {
				if tw.sample(tw.resets[r]) == i {
					chunk[j] = SampleReset
				}
				r++
			}
		}

		err := output(chunk)
		if err != nil {
			return err
		}
	}

	return nil
}

// End renders the trace up to the end time and writes it to the file.
func (tw *TraceWriter) End(end scheduler.Time) (rerr error) {
	f, err := tw.fs.Create(tw.filename)
	if err != nil {
		return curated.Errorf("tracewriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("tracewriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, tw.rate, 8, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  tw.rate,
		},
		SourceBitDepth: 8,
	}

	err = tw.RenderChunks(end, ChunkSize, func(chunk []int) error {
		buf.Data = chunk
		return enc.Write(buf)
	})
	if err != nil {
		return curated.Errorf("tracewriter: %v", err)
	}

	err = enc.Close()
	if err != nil {
		return curated.Errorf("tracewriter: %v", err)
	}

	return nil
}
