package dto

import "encoding/json"

// Realtime event names.
const (
	EventTriggerCapture = "trigger_capture"
	EventSendImage      = "send_image"
	EventTakePicture    = "take_picture"
	EventImageSaved     = "image_saved"
)

// Event is the JSON envelope carried by every realtime frame.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ImagePayload is the body of a send_image event and of POST /upload.
type ImagePayload struct {
	Image string `json:"image"`
}

// ImageSaved is the body of an image_saved event.
type ImageSaved struct {
	Filename string `json:"filename"`
}

// NewEvent builds an envelope, marshalling data when it is non-nil.
func NewEvent(name string, data interface{}) (Event, error) {
	ev := Event{Event: name}
	if data == nil {
		return ev, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	ev.Data = raw
	return ev, nil
}
