// Package multiplexer delivers a continuous MJPEG stream to one viewer by
// sampling the frame store at a fixed cadence. Many sessions run concurrently
// and independently over the same store; a session never blocks the uploader
// or other viewers.
package multiplexer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"camrelay/pkg/models"
)

const (
	// DefaultInterval is the sampling cadence: 100ms, a 10 Hz stream.
	DefaultInterval = 100 * time.Millisecond

	// DefaultBoundary is the multipart boundary marker.
	DefaultBoundary = "frame"
)

// FrameSource yields the most recent frame stored for a camera
type FrameSource interface {
	Get(cameraID string) (*models.Frame, bool)
}

// Config holds per-session stream settings
type Config struct {
	Interval time.Duration // Sampling period; DefaultInterval when zero
	Boundary string        // Multipart boundary; DefaultBoundary when empty
}

// Session streams frames for a single camera to a single viewer.
// Lifecycle: created (New) -> sampling (Serve) -> closed (Serve returned).
type Session struct {
	src      FrameSource
	cameraID string
	interval time.Duration
	boundary string
	log      *zap.Logger
	parts    int64
}

// New creates a stream session for one viewer. If log is nil a no-op logger
// is used.
func New(src FrameSource, cameraID string, cfg Config, log *zap.Logger) *Session {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Boundary == "" {
		cfg.Boundary = DefaultBoundary
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		src:      src,
		cameraID: cameraID,
		interval: cfg.Interval,
		boundary: cfg.Boundary,
		log:      log,
	}
}

// Serve runs the sampling loop until ctx is cancelled or a write fails.
// Each tick reads the latest frame; a camera with no stored frame produces
// nothing that tick, not even a boundary marker. The viewer sees the latest
// available frame at each tick, which may repeat or skip frames relative to
// the upload rate.
//
// A write failure means the viewer is gone: Serve stops the ticker, performs
// no further store reads, and returns the error for the caller to log. It is
// never retried and never affects other sessions.
func (s *Session) Serve(ctx context.Context, w io.Writer) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			wrote, err := s.emit(w)
			if err != nil {
				return err
			}
			if wrote && flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// emit performs one tick: sample the store and, if a frame exists, write it
// as one multipart part. Returns whether a part was written.
func (s *Session) emit(w io.Writer) (bool, error) {
	frame, ok := s.src.Get(s.cameraID)
	if !ok {
		return false, nil
	}

	if err := s.writePart(w, frame.Data); err != nil {
		return false, err
	}
	s.parts++
	return true, nil
}

// writePart writes one frame as a multipart part: boundary marker,
// content-type line, blank line, frame bytes, trailing line break.
func (s *Session) writePart(w io.Writer, data []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\n", s.boundary); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Parts returns the number of parts written. Only meaningful after Serve has
// returned.
func (s *Session) Parts() int64 {
	return s.parts
}

// CameraID returns the camera this session samples
func (s *Session) CameraID() string {
	return s.cameraID
}
