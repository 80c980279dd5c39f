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

// Package metrics exposes the activity of the simulated platform as
// prometheus metrics.
//
// The collectors are registered with a caller supplied registry rather than
// the prometheus default registry. This means that more than one platform can
// exist in the same process (which is the case in tests) without the
// registrations colliding.
package metrics

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/jmhodges/clock"
	"github.com/jpillora/backoff"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/signals"
)

// Namespace of all metrics.
const Namespace = "wdtsim"

// Labels for the op label of the bus metrics.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// Metrics is the collection of platform metrics.
type Metrics struct {
	IRQEdges      prometheus.Counter
	IRQLevel      prometheus.Gauge
	ResetRequests *prometheus.CounterVec
	Resets        prometheus.Counter
	BusAccesses   *prometheus.CounterVec
	BusFaults     *prometheus.CounterVec
	VirtualTime   prometheus.Gauge
}

// NewMetrics is the preferred method of initialisation for the Metrics type.
// All collectors are registered with the supplied Registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		IRQEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "watchdog",
			Name:      "irq_edges_total",
			Help:      "Number of rising edges on the watchdog interrupt line",
		}),
		IRQLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "watchdog",
			Name:      "irq_level",
			Help:      "Current level of the watchdog interrupt line",
		}),
		ResetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "platform",
			Name:      "reset_requests_total",
			Help:      "Number of system reset requests by cause",
		}, []string{"cause"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "platform",
			Name:      "resets_total",
			Help:      "Number of system resets performed",
		}),
		BusAccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "bus",
			Name:      "accesses_total",
			Help:      "Number of completed bus accesses",
		}, []string{"op"}),
		BusFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "bus",
			Name:      "faults_total",
			Help:      "Number of bus accesses that could not be completed",
		}, []string{"op"}),
		VirtualTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "platform",
			Name:      "virtual_time_seconds",
			Help:      "Current virtual time of the platform",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.IRQEdges, m.IRQLevel, m.ResetRequests, m.Resets,
		m.BusAccesses, m.BusFaults, m.VirtualTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, curated.Errorf("metrics: %v", err)
		}
	}

	return m, nil
}

// IRQ records a change of level on the interrupt line.
func (m *Metrics) IRQ(level bool) {
	if level {
		m.IRQEdges.Inc()
		m.IRQLevel.Set(1)
	} else {
		m.IRQLevel.Set(0)
	}
}

// ResetRequested records a reset request.
func (m *Metrics) ResetRequested(cause signals.ResetCause) {
	m.ResetRequests.WithLabelValues(cause.String()).Inc()
}

// BusAccess records the outcome of a bus access.
func (m *Metrics) BusAccess(op string, err error) {
	if err != nil {
		m.BusFaults.WithLabelValues(op).Inc()
		return
	}
	m.BusAccesses.WithLabelValues(op).Inc()
}

// Time records the current virtual time.
func (m *Metrics) Time(t scheduler.Time) {
	m.VirtualTime.Set(t.Duration().Seconds())
}

// Handler returns an http.Handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Listen opens a listener on the address for the metrics server. If the
// address is in use the attempt is retried a small number of times with an
// increasing delay.
func Listen(clk clock.Clock, addr string) (net.Listener, error) {
	const maxAttempts = 5

	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
	}

	for {
		l, err := net.Listen("tcp", addr)
		if err == nil {
			return l, nil
		}
		if b.Attempt() >= maxAttempts-1 {
			return nil, curated.Errorf("metrics: could not listen: %v", err)
		}
		clk.Sleep(b.Duration())
	}
}

// Serve the metrics gathered by g on the listener. Serve returns nil when the
// listener is closed.
func Serve(l net.Listener, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	err := srv.Serve(l)
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return curated.Errorf("metrics: %v", err)
	}
	return nil
}
