// Package metrics exposes Prometheus collectors for the tour service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wairimu"

// Collector owns its registry so tests and multiple servers never clash.
type Collector struct {
	registry *prometheus.Registry

	framesTotal     prometheus.Counter
	sceneSwitches   *prometheus.CounterVec
	imageLoad       *prometheus.HistogramVec
	loadsDiscarded  prometheus.Counter
	unsupported     prometheus.Counter
	activeSessions  prometheus.Gauge
	inquiriesTotal  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	stillsRendered  *prometheus.CounterVec
}

// New creates a collector with Go runtime and process metrics included.
func New() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_frames_total",
			Help:      "Frames drawn by viewer sessions",
		}),
		sceneSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "viewer_scene_switches_total",
				Help:      "Scenes entered by viewer sessions",
			},
			[]string{"scene"},
		),
		imageLoad: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "viewer_image_load_seconds",
				Help:      "Time to load a panorama image",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"scene", "result"},
		),
		loadsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_loads_discarded_total",
			Help:      "Panorama loads that finished after their scene was left",
		}),
		unsupported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_unsupported_total",
			Help:      "Sessions that could not obtain a rendering context",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "viewer_sessions_active",
			Help:      "Open remote viewer sessions",
		}),
		inquiriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inquiries_total",
				Help:      "Inquiry submissions by outcome",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time spent handling HTTP requests",
			},
			[]string{"route", "code"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limit",
		}),
		stillsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stills_rendered_total",
				Help:      "Preview stills rendered by outcome",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.framesTotal,
		m.sceneSwitches,
		m.imageLoad,
		m.loadsDiscarded,
		m.unsupported,
		m.activeSessions,
		m.inquiriesTotal,
		m.requestDuration,
		m.rateLimited,
		m.stillsRendered,
	)
	return m
}

// Registry returns the registry backing the collector.
func (m *Collector) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Viewer session events.

func (m *Collector) FrameDrawn() { m.framesTotal.Inc() }

func (m *Collector) SceneSwitched(scene string) {
	m.sceneSwitches.WithLabelValues(scene).Inc()
}

func (m *Collector) ImageLoaded(scene string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.imageLoad.WithLabelValues(scene, result).Observe(took.Seconds())
}

func (m *Collector) LoadDiscarded(string) { m.loadsDiscarded.Inc() }

func (m *Collector) Unsupported(string) { m.unsupported.Inc() }

// SessionOpened and SessionClosed track remote viewer sessions.
func (m *Collector) SessionOpened() { m.activeSessions.Inc() }
func (m *Collector) SessionClosed() { m.activeSessions.Dec() }

// RecordInquiry counts one submission; result is "ok", "invalid" or "error".
func (m *Collector) RecordInquiry(result string) {
	m.inquiriesTotal.WithLabelValues(result).Inc()
}

// RecordRequest observes one HTTP request.
func (m *Collector) RecordRequest(route string, code int, duration time.Duration) {
	m.requestDuration.WithLabelValues(route, statusClass(code)).Observe(duration.Seconds())
}

func (m *Collector) RecordRateLimited() { m.rateLimited.Inc() }

// RecordStill counts one preview still.
func (m *Collector) RecordStill(err error) {
	if err != nil {
		m.stillsRendered.WithLabelValues("error").Inc()
		return
	}
	m.stillsRendered.WithLabelValues("ok").Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}
