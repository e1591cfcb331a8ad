package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// UploadResult is the JSON response of POST /upload.
type UploadResult struct {
	Status   string `json:"status"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
}
