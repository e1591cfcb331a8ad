package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"camrelay/internal/config"
	"camrelay/internal/dto"
	"camrelay/internal/logger"
	"camrelay/internal/service"
	"camrelay/internal/service/codec"
)

// UploadHandler handles POST /upload with a JSON body {"image": "<data-uri>"}.
// Every outcome is reported as a dto.UploadResult; only successes are broadcast.
func UploadHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("Received image upload request from %s", r.RemoteAddr)

		if cfg.MaxPayloadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxPayloadBytes)
		}

		var req dto.ImagePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			status := http.StatusBadRequest
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				status = http.StatusRequestEntityTooLarge
			}
			logger.Error("Upload failed: invalid request body: %v", err)
			writeJSON(w, logger, status, dto.UploadResult{Status: dto.StatusError, Message: "invalid request body: " + err.Error()})
			return
		}

		filename, err := manager.HandleUpload(req.Image)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, codec.ErrMalformedPayload) {
				status = http.StatusBadRequest
			}
			logger.Error("Upload failed: %v", err)
			writeJSON(w, logger, status, dto.UploadResult{Status: dto.StatusError, Message: err.Error()})
			return
		}

		writeJSON(w, logger, http.StatusOK, dto.UploadResult{Status: dto.StatusSuccess, Filename: filename})
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
