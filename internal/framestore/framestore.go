package framestore

import (
	"sync"
	"time"

	"camrelay/pkg/models"
)

// Store holds the most recent frame per camera and maintains the in-memory
// camera records. Replacement semantics: storage is O(1) per camera regardless
// of upload rate or viewer count.
type Store struct {
	mu      sync.RWMutex
	frames  map[string]*models.Frame  // cameraID -> latest frame
	cameras map[string]*models.Camera // cameraID -> camera record
}

// New creates an empty frame store
func New() *Store {
	return &Store{
		frames:  make(map[string]*models.Frame),
		cameras: make(map[string]*models.Camera),
	}
}

// Put replaces the stored frame for a camera. The frame and its timestamp are
// swapped in as a single immutable value, so a concurrent Get never observes
// the bytes of one upload with the timestamp of another. Empty data is
// accepted.
func (s *Store) Put(cameraID string, data []byte, ts time.Time) {
	frame := &models.Frame{
		Data:      data,
		Timestamp: ts,
	}

	s.mu.Lock()
	s.frames[cameraID] = frame
	camera, exists := s.cameras[cameraID]
	if !exists {
		camera = &models.Camera{
			ID:        cameraID,
			FirstSeen: time.Now(),
		}
		s.cameras[cameraID] = camera
	}
	s.mu.Unlock()

	camera.RecordFrame(len(data))
}

// Get returns the latest frame for a camera, or false if no upload has ever
// occurred for it.
func (s *Store) Get(cameraID string) (*models.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, exists := s.frames[cameraID]
	return frame, exists
}

// Camera returns the camera record for an identifier
func (s *Store) Camera(cameraID string) (*models.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	camera, exists := s.cameras[cameraID]
	return camera, exists
}

// FrameCount returns the number of cameras with a stored frame
func (s *Store) FrameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}
