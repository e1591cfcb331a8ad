package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"camrelay/internal/config"
)

// PageHandler serves an HTML entry page from the static directory, or 404 when it is absent.
func PageHandler(cfg *config.Config, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := filepath.Join(cfg.StaticDirectory, page)

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
