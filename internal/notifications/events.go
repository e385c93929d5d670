// Package notifications delivers live view and like counters to WebSocket
// subscribers, fanned out through Redis pub/sub when available.
package notifications

import "encoding/json"

// Event types carried in CounterEvent.Type.
const (
	EventCounters = "counters"
	EventDeleted  = "deleted"
)

// CounterEvent is the payload pushed to subscribers of a video.
type CounterEvent struct {
	Type    string `json:"type"`
	VideoID int    `json:"video_id"`
	Views   int    `json:"views"`
	Likes   int    `json:"likes"`
}

// Encode returns the JSON wire form of e.
func (e CounterEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}
