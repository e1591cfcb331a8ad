package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// PrefixUpload tags images received on POST /upload.
	PrefixUpload = "image"
	// PrefixDevice tags images submitted over the realtime channel.
	PrefixDevice = "android_image"

	// TimestampLayout is the second-resolution stamp embedded in filenames.
	TimestampLayout = "20060102_150405"

	imageExt = ".jpg"
)

var (
	// ErrWriteFailure wraps any filesystem error hit while persisting an image.
	ErrWriteFailure = errors.New("failed to write image")
	// ErrNotFound is returned for missing files and names that are not plain file names.
	ErrNotFound = errors.New("image not found")
	// ErrInvalidFilename is returned by ParseFilename for names not produced by Store.
	ErrInvalidFilename = errors.New("invalid image filename")
)

// Writer persists decoded images into a flat upload directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer for dir. The directory is created lazily by Store.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// SetClock replaces the wall clock used to stamp filenames.
func (w *Writer) SetClock(now func() time.Time) {
	w.now = now
}

// Dir returns the upload directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Store writes data to "<prefix>_<YYYYMMDD_HHMMSS>.jpg" and returns the filename.
// Two calls with the same prefix within one second write the same file; the
// later one wins.
func (w *Writer) Store(data []byte, prefix string) (string, error) {
	filename := BuildFilename(prefix, w.now())

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrWriteFailure, w.dir, err)
	}

	fullpath := filepath.Join(w.dir, filename)
	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailure, filename, err)
	}
	return filename, nil
}

// List returns the sorted names of regular files in the upload directory.
// A missing directory yields an empty list.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Path resolves a stored filename inside the upload directory.
func (w *Writer) Path(name string) (string, error) {
	if !isPlainName(name) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return filepath.Join(w.dir, name), nil
}

// Open opens a stored file for reading. The caller closes it.
func (w *Writer) Open(name string) (*os.File, fs.FileInfo, error) {
	path, err := w.Path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, info, nil
}

// BuildFilename formats the stored name for prefix at time t.
func BuildFilename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s%s", prefix, t.Format(TimestampLayout), imageExt)
}

// ParseFilename splits a stored filename back into its prefix and timestamp.
func ParseFilename(name string) (string, time.Time, error) {
	base, ok := strings.CutSuffix(name, imageExt)
	// prefix + "_" + 15-znakowy znacznik czasu
	if !ok || len(base) < len(TimestampLayout)+2 {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}

	split := len(base) - len(TimestampLayout)
	if base[split-1] != '_' {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}

	ts, err := time.ParseInLocation(TimestampLayout, base[split:], time.Local)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidFilename, name, err)
	}
	return base[:split-1], ts, nil
}

// isPlainName rejects empty names, dot entries and anything carrying a path.
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`+"\x00") {
		return false
	}
	return filepath.Base(name) == name
}
