package models

import (
	"sync"
	"time"
)

// Camera tracks per-camera ingest statistics and the current viewer count.
type Camera struct {
	ID        string    // Camera identifier as supplied by the uploader
	FirstSeen time.Time // When the first frame for this camera arrived

	// Stats
	Stats CameraStats

	mu sync.RWMutex // Protects concurrent access
}

// CameraStats tracks camera statistics
type CameraStats struct {
	FramesReceived uint64    // Total frames received from the camera
	BytesReceived  uint64    // Total frame bytes received
	LastFrameTime  time.Time // Time of last frame received
	Viewers        int       // Current number of open stream viewers
}

// RecordFrame updates ingest statistics for one received frame
func (c *Camera) RecordFrame(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Stats.FramesReceived++
	c.Stats.BytesReceived += uint64(size)
	c.Stats.LastFrameTime = time.Now()
}

// IncrementViewers atomically increments the viewer count
func (c *Camera) IncrementViewers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Viewers++
}

// DecrementViewers atomically decrements the viewer count
func (c *Camera) DecrementViewers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Stats.Viewers > 0 {
		c.Stats.Viewers--
	}
}

// GetStats safely returns a snapshot of the camera statistics
func (c *Camera) GetStats() CameraStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Stats
}
