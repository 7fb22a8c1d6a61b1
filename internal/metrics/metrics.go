package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Upload metrics
	FramesReceived *prometheus.CounterVec
	FrameSize      prometheus.Histogram
	UploadErrors   prometheus.Counter

	// Camera metrics
	KnownCameras prometheus.Gauge

	// Stream viewer metrics
	ActiveViewers prometheus.Gauge
	TotalViewers  prometheus.Counter
	StreamParts   prometheus.Counter

	// Roster metrics
	RosterSubscribers prometheus.Gauge
	RosterAnnounces   prometheus.Counter

	// Snapshot/timestamp metrics
	SnapshotRequests  *prometheus.CounterVec
	TimestampRequests *prometheus.CounterVec
}

// New creates and registers all metrics. A nil registerer uses the default
// Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		// Upload metrics
		FramesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camrelay_frames_received_total",
				Help: "Total number of frames received",
			},
			[]string{"camera_id"},
		),
		FrameSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "camrelay_frame_size_bytes",
			Help:    "Size of uploaded frames in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10), // 1KB to ~512KB
		}),
		UploadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "camrelay_upload_errors_total",
			Help: "Total number of rejected uploads",
		}),

		// Camera metrics
		KnownCameras: factory.NewGauge(prometheus.GaugeOpts{
			Name: "camrelay_known_cameras",
			Help: "Number of camera identifiers ever seen",
		}),

		// Stream viewer metrics
		ActiveViewers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "camrelay_active_stream_viewers",
			Help: "Number of currently open MJPEG stream connections",
		}),
		TotalViewers: factory.NewCounter(prometheus.CounterOpts{
			Name: "camrelay_stream_viewers_total",
			Help: "Total number of MJPEG stream connections since server start",
		}),
		StreamParts: factory.NewCounter(prometheus.CounterOpts{
			Name: "camrelay_stream_parts_total",
			Help: "Total number of MJPEG parts written to viewers",
		}),

		// Roster metrics
		RosterSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "camrelay_roster_subscribers",
			Help: "Number of connected roster websocket subscribers",
		}),
		RosterAnnounces: factory.NewCounter(prometheus.CounterOpts{
			Name: "camrelay_roster_announces_total",
			Help: "Total number of roster broadcasts",
		}),

		// Snapshot/timestamp metrics
		SnapshotRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camrelay_snapshot_requests_total",
				Help: "Total number of snapshot requests",
			},
			[]string{"status"}, // status: ok or not_found
		),
		TimestampRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camrelay_timestamp_requests_total",
				Help: "Total number of timestamp requests",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordFrame records an accepted upload
func (m *Metrics) RecordFrame(cameraID string, size int) {
	m.FramesReceived.WithLabelValues(cameraID).Inc()
	m.FrameSize.Observe(float64(size))
}

// RecordUploadError records a rejected upload
func (m *Metrics) RecordUploadError() {
	m.UploadErrors.Inc()
}

// RecordNewCamera records a newly seen camera identifier
func (m *Metrics) RecordNewCamera() {
	m.KnownCameras.Inc()
}

// RecordViewerStart records an MJPEG stream connection opening
func (m *Metrics) RecordViewerStart() {
	m.ActiveViewers.Inc()
	m.TotalViewers.Inc()
}

// RecordViewerStop records an MJPEG stream connection closing
func (m *Metrics) RecordViewerStop(parts int64) {
	m.ActiveViewers.Dec()
	m.StreamParts.Add(float64(parts))
}

// RecordAnnounce records one roster broadcast
func (m *Metrics) RecordAnnounce() {
	m.RosterAnnounces.Inc()
}

// RecordSubscribe records a roster subscriber connecting
func (m *Metrics) RecordSubscribe() {
	m.RosterSubscribers.Inc()
}

// RecordUnsubscribe records a roster subscriber disconnecting
func (m *Metrics) RecordUnsubscribe() {
	m.RosterSubscribers.Dec()
}

// RecordSnapshot records a snapshot request
func (m *Metrics) RecordSnapshot(found bool) {
	m.SnapshotRequests.WithLabelValues(statusLabel(found)).Inc()
}

// RecordTimestamp records a timestamp request
func (m *Metrics) RecordTimestamp(found bool) {
	m.TimestampRequests.WithLabelValues(statusLabel(found)).Inc()
}

func statusLabel(found bool) string {
	if found {
		return "ok"
	}
	return "not_found"
}
