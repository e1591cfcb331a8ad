package route

import (
	"net/http"

	"camrelay/internal/config"
	"camrelay/internal/handler"
	"camrelay/internal/logger"
	"camrelay/internal/middleware"
	"camrelay/internal/service"
)

// SetupRoutes registers pages, the realtime endpoint, upload and download
// endpoints and log views, and wraps the mux with request logging.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Entry pages
	mux.HandleFunc("GET /{$}", handler.PageHandler(cfg, "laptop.html"))
	mux.HandleFunc("GET /android", handler.PageHandler(cfg, "android.html"))

	// Realtime channel
	mux.HandleFunc("GET /ws", handler.WebsocketHandler(manager, cfg, logger))

	// Images
	mux.HandleFunc("POST /upload", handler.UploadHandler(manager, cfg, logger))
	mux.HandleFunc("GET /downloads", handler.ListDownloadsHandler(manager, logger))
	mux.HandleFunc("GET /download/{filename}", handler.DownloadHandler(manager, logger))
	mux.HandleFunc("GET /api/images", handler.GetImagesFromDBHandler(manager, logger))
	mux.HandleFunc("GET /api/status", handler.StatusHandler(manager, logger))

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(logger))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(logger))

	return middleware.RequestLogger(logger, mux)
}
