package dto

import (
	"encoding/json"
	"time"
)

// ImageInfo represents indexed metadata about a stored image.
type ImageInfo struct {
	Name   string    `json:"name"`
	Source string    `json:"source"`
	Date   time.Time `json:"date"`
	Size   int64     `json:"size"`
}

// MarshalJSON customizes JSON output for ImageInfo to format the capture time.
func (p ImageInfo) MarshalJSON() ([]byte, error) {
	type Alias ImageInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      p.Date.Format("02-01-2006"),
		TimeOfDay: p.Date.Format("15:04:05"),
		Alias:     (Alias)(p),
	})
}
