package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"camrelay/internal/dto"
	"camrelay/internal/logger"
	"camrelay/internal/service"
	"camrelay/internal/service/storage"
)

// ListDownloadsHandler returns the sorted names of all stored files as a JSON array.
func ListDownloadsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := manager.GetWriter().List()
		if err != nil {
			logger.Error("Error reading upload directory: %v", err)
			http.Error(w, "Unable to read upload directory", http.StatusInternalServerError)
			return
		}

		logger.Info("Listing %d uploaded files", len(files))
		writeJSON(w, logger, http.StatusOK, files)
	}
}

// DownloadHandler streams /download/{filename} as an attachment.
func DownloadHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.PathValue("filename")
		logger.Info("Download requested: %s", filename)

		file, info, err := manager.GetWriter().Open(filename)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logger.Error("Error opening %s: %v", filename, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer file.Close()

		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		http.ServeContent(w, r, filename, info.ModTime(), file)
	}
}

// GetImagesFromDBHandler returns a page of indexed images, newest first.
func GetImagesFromDBHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imageRepo := manager.GetImageRepository()
		if imageRepo == nil {
			http.Error(w, "Image index is disabled", http.StatusServiceUnavailable)
			return
		}

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &dto.ImageFilters{
			Source: q.Get("source"),
			Limit:  limit,
			Offset: (page - 1) * limit,
		}

		images, err := imageRepo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying images from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := imageRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting images: %v", err)
			totalCount = len(images)
		}

		infos := make([]dto.ImageInfo, 0, len(images))
		for _, img := range images {
			infos = append(infos, dto.ImageInfo{
				Name:   img.Filename,
				Source: img.Source,
				Date:   img.Timestamp,
				Size:   img.FileSize,
			})
		}

		writeJSON(w, logger, http.StatusOK, dto.ImagesData{
			Images:      infos,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		})
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
