package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"camrelay/internal/logger"
)

func validLevel(level string) bool {
	return level == logger.LevelInfo || level == logger.LevelWarning || level == logger.LevelError
}

// ShowLogsHandler serves <level>.log as text/plain.
func ShowLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := r.PathValue("level")
		if !validLevel(level) {
			http.NotFound(w, r)
			return
		}

		filePath := filepath.Join(logger.Dir(), level+".log")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Log file not found: " + level + ".log"))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")

		http.ServeFile(w, r, filePath)
	}
}

// ClearLogsHandler truncates <level>.log.
func ClearLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := r.PathValue("level")
		if !validLevel(level) {
			http.NotFound(w, r)
			return
		}

		if err := logger.CleanLogs(level); err != nil {
			logger.Error("Error clearing logs: %v", err)
			http.Error(w, "Unable to clear log", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
