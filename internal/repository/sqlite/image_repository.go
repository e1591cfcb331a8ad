package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"camrelay/internal/dto"
	"camrelay/internal/model"
)

const imageColumns = "id, filename, source, timestamp, filepath, filesize"

// ImageRepository implements repository.ImageRepository for SQLite.
type ImageRepository struct {
	db *DB
}

// NewImageRepository creates a new SQLite image repository.
func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row rowScanner) (model.Image, error) {
	var img model.Image
	err := row.Scan(&img.ID, &img.Filename, &img.Source, &img.Timestamp, &img.FilePath, &img.FileSize)
	return img, err
}

// sourceFilter builds the WHERE clause shared by GetAll and GetTotalCount.
func sourceFilter(filter *dto.ImageFilters) (string, []interface{}) {
	if filter == nil || filter.Source == "" {
		return "", nil
	}
	return " WHERE source = ?", []interface{}{filter.Source}
}

// Upsert records a stored file. A file overwritten under the same name keeps
// its row id and gets the new metadata.
func (r *ImageRepository) Upsert(img *model.Image) (int64, error) {
	var id int64
	err := r.db.write(func(conn *sql.DB) error {
		return conn.QueryRow(`
			INSERT INTO images (filename, source, timestamp, filepath, filesize)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(filename) DO UPDATE SET
				source = excluded.source,
				timestamp = excluded.timestamp,
				filepath = excluded.filepath,
				filesize = excluded.filesize
			RETURNING id
		`, img.Filename, img.Source, img.Timestamp, img.FilePath, img.FileSize).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %s: %w", img.Filename, err)
	}
	return id, nil
}

// GetByFilename returns the row for filename, or nil when it is not indexed.
func (r *ImageRepository) GetByFilename(filename string) (*model.Image, error) {
	var img model.Image
	err := r.db.read(func(conn *sql.DB) error {
		var err error
		img, err = scanImage(conn.QueryRow("SELECT "+imageColumns+" FROM images WHERE filename = ?", filename))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", filename, err)
	}
	return &img, nil
}

// GetAll lists indexed images newest first. Offset is only applied together with a limit.
func (r *ImageRepository) GetAll(filter *dto.ImageFilters) ([]model.Image, error) {
	where, args := sourceFilter(filter)

	var query strings.Builder
	query.WriteString("SELECT " + imageColumns + " FROM images" + where)
	query.WriteString(" ORDER BY timestamp DESC, filename DESC")
	if filter != nil && filter.Limit > 0 {
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	images := []model.Image{}
	err := r.db.read(func(conn *sql.DB) error {
		rows, err := conn.Query(query.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			img, err := scanImage(rows)
			if err != nil {
				return err
			}
			images = append(images, img)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	return images, nil
}

// GetTotalCount counts indexed images matching the filter's source, ignoring paging.
func (r *ImageRepository) GetTotalCount(filter *dto.ImageFilters) (int, error) {
	where, args := sourceFilter(filter)

	var count int
	err := r.db.read(func(conn *sql.DB) error {
		return conn.QueryRow("SELECT COUNT(*) FROM images"+where, args...).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

// DeleteByFilename drops the row of a file; unknown names are not an error.
func (r *ImageRepository) DeleteByFilename(filename string) error {
	err := r.db.write(func(conn *sql.DB) error {
		_, err := conn.Exec("DELETE FROM images WHERE filename = ?", filename)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}

// Prune deletes rows whose filename is not in existing and reports how many went.
func (r *ImageRepository) Prune(existing []string) (int, error) {
	keep := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		keep[name] = struct{}{}
	}

	pruned := 0
	err := r.db.write(func(conn *sql.DB) error {
		stale, err := staleFilenames(conn, keep)
		if err != nil || len(stale) == 0 {
			return err
		}

		// Wiersze muszą być zamknięte przed transakcją (jedno połączenie)
		tx, err := conn.Begin()
		if err != nil {
			return err
		}
		for _, name := range stale {
			if _, err := tx.Exec("DELETE FROM images WHERE filename = ?", name); err != nil {
				tx.Rollback()
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		pruned = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune index: %w", err)
	}
	return pruned, nil
}

func staleFilenames(conn *sql.DB, keep map[string]struct{}) ([]string, error) {
	rows, err := conn.Query("SELECT filename FROM images")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if _, ok := keep[name]; !ok {
			stale = append(stale, name)
		}
	}
	return stale, rows.Err()
}
