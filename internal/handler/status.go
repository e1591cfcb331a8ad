package handler

import (
	"net/http"

	"camrelay/internal/logger"
	"camrelay/internal/service"
)

type statusResponse struct {
	Clients int `json:"clients"`
	Images  int `json:"images"`
}

// StatusHandler reports how many clients are connected and how many files are stored.
func StatusHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := manager.GetWriter().List()
		if err != nil {
			logger.Error("Error reading upload directory: %v", err)
		}

		writeJSON(w, logger, http.StatusOK, statusResponse{
			Clients: manager.GetWebsocketService().ClientCount(),
			Images:  len(files),
		})
	}
}
