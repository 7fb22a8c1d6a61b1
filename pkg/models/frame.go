package models

import "time"

// Frame is a single JPEG image received from a camera, paired with the time it
// was captured. A Frame is never mutated after it is stored; an upload for the
// same camera replaces the whole value, so readers always see a matched
// (Data, Timestamp) pair.
type Frame struct {
	Data      []byte    // Raw JPEG bytes, opaque to the relay
	Timestamp time.Time // Capture time recorded at upload (UTC)
}
