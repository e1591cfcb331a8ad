package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"camrelay/internal/config"
	"camrelay/internal/model"
	"camrelay/internal/repository/sqlite"
	"camrelay/internal/service/storage"

	"github.com/spf13/pflag"
)

// reindex rebuilds the SQLite image index from the files in the upload directory.
func main() {
	cfg := config.Load()

	uploadDir := pflag.String("images", cfg.UploadDirectory, "Directory containing uploaded images")
	dbPath := pflag.String("db", cfg.IndexPath, "Database path")
	pflag.Parse()

	fmt.Printf("Indexing images from %s into %s\n", *uploadDir, *dbPath)

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	repo := sqlite.NewImageRepository(db)

	writer := storage.NewWriter(*uploadDir)
	files, err := writer.List()
	if err != nil {
		log.Fatalf("Failed to read upload directory: %v", err)
	}

	indexed, unchanged, skipped := 0, 0, 0
	for _, name := range files {
		source, ts, err := storage.ParseFilename(name)
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			skipped++
			continue
		}

		info, err := os.Stat(filepath.Join(*uploadDir, name))
		if err != nil {
			log.Printf("Failed to stat %s: %v", name, err)
			skipped++
			continue
		}

		existing, err := repo.GetByFilename(name)
		if err != nil {
			log.Fatalf("Failed to look up %s: %v", name, err)
		}
		if existing != nil && existing.FileSize == info.Size() && existing.Source == source {
			unchanged++
			continue
		}

		_, err = repo.Upsert(&model.Image{
			Filename:  name,
			Source:    source,
			Timestamp: ts,
			FilePath:  filepath.Join(*uploadDir, name),
			FileSize:  info.Size(),
		})
		if err != nil {
			log.Fatalf("Failed to index %s: %v", name, err)
		}
		indexed++
	}

	pruned, err := repo.Prune(files)
	if err != nil {
		log.Fatalf("Failed to prune index: %v", err)
	}

	fmt.Printf("Indexed %d images (%d unchanged), pruned %d stale rows\n", indexed, unchanged, pruned)
	if skipped > 0 {
		fmt.Printf("Skipped %d files (unrecognised name or errors)\n", skipped)
	}
}
