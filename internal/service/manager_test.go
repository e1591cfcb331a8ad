package service

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"camrelay/internal/config"
	"camrelay/internal/dto"
	"camrelay/internal/logger"
	"camrelay/internal/repository/sqlite"
	"camrelay/internal/service/codec"
	"camrelay/internal/service/storage"
	"camrelay/internal/service/websocket"
)

type testEnv struct {
	manager   *Manager
	uploadDir string
	repo      *sqlite.ImageRepository
}

func setupManager(t *testing.T, withIndex bool) *testEnv {
	t.Helper()

	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	env := &testEnv{uploadDir: uploadDir}

	hub := websocket.NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	if withIndex {
		db, err := sqlite.New(filepath.Join(t.TempDir(), "images.db"))
		if err != nil {
			t.Fatalf("Failed to open index: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		env.repo = sqlite.NewImageRepository(db)
		env.manager = NewManager(storage.NewWriter(uploadDir), env.repo, hub, log)
	} else {
		env.manager = NewManager(storage.NewWriter(uploadDir), nil, hub, log)
	}
	return env
}

func dataURI(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestManager_SaveImage(t *testing.T) {
	env := setupManager(t, false)

	data := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	filename, err := env.manager.SaveImage(dataURI(data), storage.PrefixDevice)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(env.uploadDir, filename))
	if err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Stored bytes mismatch")
	}
}

func TestManager_SaveImage_MalformedWritesNothing(t *testing.T) {
	env := setupManager(t, true)

	_, err := env.manager.SaveImage("bad-payload-no-comma", storage.PrefixUpload)
	if !errors.Is(err, codec.ErrMalformedPayload) {
		t.Fatalf("Expected ErrMalformedPayload, got %v", err)
	}

	entries, _ := os.ReadDir(env.uploadDir)
	if len(entries) != 0 {
		t.Errorf("Expected no files, found %d", len(entries))
	}

	count, _ := env.repo.GetTotalCount(&dto.ImageFilters{})
	if count != 0 {
		t.Errorf("Expected empty index, got %d rows", count)
	}
}

func TestManager_SaveImage_Indexes(t *testing.T) {
	env := setupManager(t, true)

	filename, err := env.manager.SaveImage(dataURI([]byte("abc")), storage.PrefixUpload)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	img, err := env.repo.GetByFilename(filename)
	if err != nil || img == nil {
		t.Fatalf("Expected indexed image, got %v (%v)", img, err)
	}
	if img.Source != storage.PrefixUpload {
		t.Errorf("Expected source %s, got %s", storage.PrefixUpload, img.Source)
	}
	if img.FileSize != 3 {
		t.Errorf("Expected size 3, got %d", img.FileSize)
	}
}

func TestManager_HandleUpload_UsesUploadPrefix(t *testing.T) {
	env := setupManager(t, false)

	filename, err := env.manager.HandleUpload(dataURI([]byte("x")))
	if err != nil {
		t.Fatalf("HandleUpload failed: %v", err)
	}

	source, _, err := storage.ParseFilename(filename)
	if err != nil || source != storage.PrefixUpload {
		t.Errorf("Expected %s prefix, got %s (%v)", storage.PrefixUpload, filename, err)
	}
}
