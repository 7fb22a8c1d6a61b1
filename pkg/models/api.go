package models

// UploadRequest is the body of POST /upload/:cameraId
type UploadRequest struct {
	Frame string `json:"frame"` // Base64-encoded JPEG
}

// UploadResponse confirms an accepted frame
type UploadResponse struct {
	Status    string `json:"status"`
	CameraID  string `json:"cameraId"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// TimestampResponse is the body of GET /timestamp/:cameraId
type TimestampResponse struct {
	CameraID  string `json:"cameraId"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// CameraInfo is the API representation of one known camera
type CameraInfo struct {
	CameraID       string `json:"cameraId"`
	FirstSeen      string `json:"firstSeen"` // RFC3339
	FramesReceived uint64 `json:"framesReceived"`
	BytesReceived  uint64 `json:"bytesReceived"`
	LastFrameTime  string `json:"lastFrameTime"` // RFC3339
	Viewers        int    `json:"viewers"`
}

// CameraListResponse is the body of GET /api/v1/cameras
type CameraListResponse struct {
	Cameras []CameraInfo `json:"cameras"`
	Total   int          `json:"total"`
}

// RosterMessage is pushed to roster subscribers over the websocket
type RosterMessage struct {
	Event   string   `json:"event"` // Always "camera-list"
	Cameras []string `json:"cameras"`
}

// RosterCommand is a client request on the roster websocket
type RosterCommand struct {
	Action string `json:"action"` // "get-cameras" requests an immediate roster push
}
