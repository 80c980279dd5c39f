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

package tracewriter_test

import (
	"testing"

	"github.com/go-audio/wav"
	"github.com/socsim/wdtsim/test"
	"github.com/socsim/wdtsim/tracewriter"
	"github.com/spf13/afero"
)

func TestRender(t *testing.T) {
	// 1000 samples per second makes each sample one millisecond long
	tw, err := tracewriter.New(afero.NewMemMapFs(), "trace.wav", 1000, 0)
	test.DemandSuccess(t, err)

	tw.IRQ(2_000_000, true)
	tw.IRQ(4_500_000, false)
	tw.Reset(7_000_000)

	data := tw.Render(10_000_000)
	test.DemandEquality(t, len(data), 10)

	exp := []int{
		tracewriter.SampleLow, tracewriter.SampleLow,
		tracewriter.SampleHigh, tracewriter.SampleHigh,
		tracewriter.SampleLow, tracewriter.SampleLow, tracewriter.SampleLow,
		tracewriter.SampleReset,
		tracewriter.SampleLow, tracewriter.SampleLow,
	}
	for i := range exp {
		test.ExpectEquality(t, data[i], exp[i], i)
	}
}

func TestInvalidRate(t *testing.T) {
	_, err := tracewriter.New(afero.NewMemMapFs(), "trace.wav", 0, 0)
	test.ExpectFailure(t, err)
}

func TestEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	tw, err := tracewriter.New(fs, "trace.wav", 8000, 1_000_000_000)
	test.DemandSuccess(t, err)

	tw.IRQ(1_250_000_000, true)
	test.DemandSuccess(t, tw.End(1_500_000_000))

	f, err := fs.Open("trace.wav")
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())
	test.ExpectEquality(t, dec.SampleRate, uint32(8000))
	test.ExpectEquality(t, dec.NumChans, uint16(1))
	test.ExpectEquality(t, dec.BitDepth, uint16(8))

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(buf.Data), 4000)

	// sample values are compared as bytes because 8 bit WAV data is unsigned
	test.ExpectEquality(t, uint8(buf.Data[0]), uint8(tracewriter.SampleLow))
	test.ExpectEquality(t, uint8(buf.Data[1999]), uint8(tracewriter.SampleLow))
	test.ExpectEquality(t, uint8(buf.Data[2000]), uint8(tracewriter.SampleHigh))
	test.ExpectEquality(t, uint8(buf.Data[3999]), uint8(tracewriter.SampleHigh))
}

func TestRenderChunks(t *testing.T) {
	tw, err := tracewriter.New(afero.NewMemMapFs(), "trace.wav", 1000, 0)
	test.DemandSuccess(t, err)

	tw.IRQ(2_000_000, true)
	tw.IRQ(4_500_000, false)
	tw.Reset(3_000_000)
	tw.Reset(7_000_000)

	data := tw.Render(10_000_000)

	// chunks of three samples split the trace unevenly
	var chunked []int
	var sizes []int
	err = tw.RenderChunks(10_000_000, 3, func(chunk []int) error {
		sizes = append(sizes, len(chunk))
		chunked = append(chunked, chunk...)
		return nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(sizes), 4)
	test.ExpectEquality(t, sizes[3], 1)
	test.DemandEquality(t, len(chunked), len(data))
	for i := range data {
		test.ExpectEquality(t, chunked[i], data[i], i)
	}
	test.ExpectEquality(t, data[3], tracewriter.SampleReset)
	test.ExpectEquality(t, data[7], tracewriter.SampleReset)

	test.ExpectFailure(t, tw.RenderChunks(10_000_000, 0, func([]int) error { return nil }))
}

func TestEndManyChunks(t *testing.T) {
	fs := afero.NewMemMapFs()
	tw, err := tracewriter.New(fs, "trace.wav", tracewriter.DefaultSampleRate, 0)
	test.DemandSuccess(t, err)

	// three seconds is more than two chunks at the default sample rate
	tw.IRQ(2_000_000_000, true)
	tw.Reset(2_500_000_000)
	test.DemandSuccess(t, tw.End(3_000_000_000))

	f, err := fs.Open("trace.wav")
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(buf.Data), 3*tracewriter.DefaultSampleRate)

	test.ExpectEquality(t, uint8(buf.Data[95999]), uint8(tracewriter.SampleLow))
	test.ExpectEquality(t, uint8(buf.Data[96000]), uint8(tracewriter.SampleHigh))
	test.ExpectEquality(t, uint8(buf.Data[120000]), uint8(tracewriter.SampleReset))
	test.ExpectEquality(t, uint8(buf.Data[143999]), uint8(tracewriter.SampleHigh))
}
