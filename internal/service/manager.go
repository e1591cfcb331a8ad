package service

import (
	"path/filepath"

	"camrelay/internal/dto"
	"camrelay/internal/logger"
	"camrelay/internal/model"
	"camrelay/internal/repository"
	"camrelay/internal/service/codec"
	"camrelay/internal/service/storage"
	"camrelay/internal/service/websocket"
)

// Manager ties the codec, the storage writer, the image index and the hub together.
type Manager struct {
	writer           *storage.Writer
	imageRepo        repository.ImageRepository
	websocketService *websocket.HubService
	logger           *logger.Logger
}

// NewManager wires the relay. imageRepo may be nil when indexing is disabled.
func NewManager(writer *storage.Writer, imageRepo repository.ImageRepository, websocketService *websocket.HubService, logger *logger.Logger) *Manager {
	return &Manager{
		writer:           writer,
		imageRepo:        imageRepo,
		websocketService: websocketService,
		logger:           logger,
	}
}

// SaveImage decodes payload and stores it under prefix. Nothing is written
// when decoding fails.
func (m *Manager) SaveImage(payload, prefix string) (string, error) {
	data, err := codec.Decode(payload)
	if err != nil {
		return "", err
	}

	filename, err := m.writer.Store(data, prefix)
	if err != nil {
		return "", err
	}

	m.indexImage(filename, int64(len(data)))
	return filename, nil
}

// indexImage records a stored file; index failures never fail the store.
func (m *Manager) indexImage(filename string, size int64) {
	if m.imageRepo == nil {
		return
	}

	source, ts, err := storage.ParseFilename(filename)
	if err != nil {
		m.logger.Warning("Not indexing %s: %v", filename, err)
		return
	}

	img := &model.Image{
		Filename:  filename,
		Source:    source,
		Timestamp: ts,
		FilePath:  filepath.Join(m.writer.Dir(), filename),
		FileSize:  size,
	}
	if _, err := m.imageRepo.Upsert(img); err != nil {
		m.logger.Error("Error indexing image %s: %v", filename, err)
	}
}

// HandleUpload stores an image received over HTTP and announces it.
func (m *Manager) HandleUpload(payload string) (string, error) {
	filename, err := m.SaveImage(payload, storage.PrefixUpload)
	if err != nil {
		return "", err
	}

	m.logger.Info("Image uploaded and saved as %s", filename)
	m.NotifySaved(filename)
	return filename, nil
}

// HandleDeviceImage stores an image submitted over the realtime channel.
// Failures are only logged; the sender gets no error event.
func (m *Manager) HandleDeviceImage(payload string) {
	filename, err := m.SaveImage(payload, storage.PrefixDevice)
	if err != nil {
		m.logger.Error("Failed to save device image: %v", err)
		return
	}

	m.logger.Info("Device image saved as %s", filename)
	m.NotifySaved(filename)
}

// TriggerCapture tells every connected client to take a picture.
func (m *Manager) TriggerCapture() {
	m.logger.Info("Broadcasting '%s' to %d client(s)", dto.EventTakePicture, m.websocketService.ClientCount())
	if err := m.websocketService.BroadcastEvent(dto.EventTakePicture, nil); err != nil {
		m.logger.Error("Error broadcasting %s: %v", dto.EventTakePicture, err)
	}
}

// NotifySaved broadcasts image_saved for filename.
func (m *Manager) NotifySaved(filename string) {
	err := m.websocketService.BroadcastEvent(dto.EventImageSaved, dto.ImageSaved{Filename: filename})
	if err != nil {
		m.logger.Error("Error broadcasting %s for %s: %v", dto.EventImageSaved, filename, err)
	}
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

func (m *Manager) GetWriter() *storage.Writer {
	return m.writer
}

// GetImageRepository returns the image index, or nil when it is disabled.
func (m *Manager) GetImageRepository() repository.ImageRepository {
	return m.imageRepo
}
